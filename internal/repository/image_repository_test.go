package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"seungpyo.lee/Speceal/internal/domain"
)

func newImageRepoWithMock(t *testing.T) (domain.ImageRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewImageRepository(gdb), mock
}

func TestSearch_TagFilterMatchesAny(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	// match-any tag filtering goes through an IN-subquery on the join table
	where := `images\.is_public = \$1 AND images\.id IN \(SELECT image_tags\.image_id FROM "image_tags" JOIN tags ON tags\.id = image_tags\.tag_id WHERE tags\.name IN \(\$2,\$3\)\)`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images" WHERE ` + where).
		WithArgs(true, "sunset", "sea").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT \* FROM "images" WHERE ` + where + ` ORDER BY images\.views ASC LIMIT \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	images, total, err := repo.Search(domain.ImageFilter{
		PublicOnly: true,
		Tags:       []string{"sunset", "sea"},
		SortBy:     "views",
		SortDesc:   false,
		Page:       1,
		Limit:      12,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Empty(t, images)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_TextSearchSpansTitleDescriptionTags(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	where := `images\.title ILIKE \$1 OR images\.description ILIKE \$2 OR images\.id IN \(SELECT image_tags\.image_id FROM "image_tags" JOIN tags ON tags\.id = image_tags\.tag_id WHERE tags\.name ILIKE \$3\)`
	mock.ExpectQuery(`SELECT count\(\*\) FROM "images" WHERE ` + where).
		WithArgs("%bay%", "%bay%", "%bay%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT \* FROM "images" WHERE ` + where).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, total, err := repo.Search(domain.ImageFilter{
		Search: "bay",
		Page:   1,
		Limit:  12,
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_SortFallsBackToCreatedAt(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "images" WHERE images\.uploaded_by = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// a sort key outside the allowlist never reaches the ORDER BY clause
	mock.ExpectQuery(`SELECT \* FROM "images" WHERE images\.uploaded_by = \$1 ORDER BY images\.created_at DESC LIMIT \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	owner := uint(7)
	_, _, err := repo.Search(domain.ImageFilter{
		OwnerID:  &owner,
		SortBy:   "title; DROP TABLE images",
		SortDesc: true,
		Page:     1,
		Limit:    12,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearch_SecondPageUsesOffset(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "images" WHERE images\.is_public = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(`SELECT \* FROM "images" WHERE images\.is_public = \$1 ORDER BY images\.created_at DESC LIMIT \$\d+ OFFSET \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := repo.Search(domain.ImageFilter{
		PublicOnly: true,
		SortBy:     "createdAt",
		SortDesc:   true,
		Page:       2,
		Limit:      12,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_RemovesExistingLike(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectExec(`DELETE FROM "image_likes" WHERE image_id = \$1 AND user_id = \$2`).
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.ToggleLike(3, 9)
	require.NoError(t, err)
	require.False(t, liked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLike_InsertsWhenAbsent(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	// delete first; only a zero-row delete falls through to the insert
	mock.ExpectExec(`DELETE FROM "image_likes" WHERE image_id = \$1 AND user_id = \$2`).
		WithArgs(3, 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO image_likes \(image_id, user_id, liked_at\) VALUES \(\$1, \$2, \$3\) ON CONFLICT DO NOTHING`).
		WithArgs(3, 9, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	liked, err := repo.ToggleLike(3, 9)
	require.NoError(t, err)
	require.True(t, liked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementViews_SingleStatement(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectExec(`UPDATE "images" SET "views"=views \+ 1 WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementViews(3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementDownloads_SingleStatement(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectExec(`UPDATE "images" SET "downloads"=downloads \+ 1 WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementDownloads(3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageUpdateFields_NoRow(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectExec(`UPDATE "images"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFields(99, map[string]interface{}{"title": "x"})
	require.ErrorIs(t, err, domain.ErrImageNotFound)
}

func TestImageDelete_RemovesLikesAndTagLinksFirst(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "image_likes" WHERE image_id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM image_tags WHERE image_id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "images" WHERE "images"\."id" = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageDelete_MissingRowRollsBack(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "image_likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM image_tags`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "images"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.ErrorIs(t, repo.Delete(99), domain.ErrImageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTrendingTags_OrdersByCountThenName(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	// ties break lexicographically so the order is stable
	mock.ExpectQuery(`SELECT tags\.name AS name, COUNT\(\*\) AS count FROM "image_tags" JOIN tags ON tags\.id = image_tags\.tag_id GROUP BY tags\.name ORDER BY count DESC, tags\.name ASC LIMIT \$\d+`).
		WillReturnRows(sqlmock.NewRows([]string{"name", "count"}).
			AddRow("sunset", 3).
			AddRow("alps", 2).
			AddRow("beach", 2))

	tags, err := repo.TrendingTags(10)
	require.NoError(t, err)
	require.Equal(t, []domain.TagCount{
		{Name: "sunset", Count: 3},
		{Name: "alps", Count: 2},
		{Name: "beach", Count: 2},
	}, tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGalleryStats_AggregatesPublicOnly(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_images, COALESCE\(SUM\(downloads\), 0\) AS total_downloads, COALESCE\(SUM\(views\), 0\) AS total_views FROM "images" WHERE is_public = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"total_images", "total_downloads", "total_views"}).
			AddRow(12, 40, 300))

	stats, err := repo.GalleryStats()
	require.NoError(t, err)
	require.Equal(t, int64(12), stats.TotalImages)
	require.Equal(t, int64(40), stats.TotalDownloads)
	require.Equal(t, int64(300), stats.TotalViews)
}

func TestOwnerAggregates(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total_images, COALESCE\(SUM\(downloads\), 0\) AS total_downloads FROM "images" WHERE uploaded_by = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"total_images", "total_downloads"}).AddRow(4, 9))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "image_likes" JOIN images ON images\.id = image_likes\.image_id WHERE images\.uploaded_by = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	agg, err := repo.OwnerAggregates(7)
	require.NoError(t, err)
	require.Equal(t, int64(4), agg.TotalImages)
	require.Equal(t, int64(9), agg.TotalDownloads)
	require.Equal(t, int64(5), agg.TotalLikes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategories_Distinct(t *testing.T) {
	repo, mock := newImageRepoWithMock(t)

	mock.ExpectQuery(`SELECT DISTINCT .?category.? FROM "images" ORDER BY category`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("art").AddRow("nature"))

	categories, err := repo.Categories()
	require.NoError(t, err)
	require.Equal(t, []string{"art", "nature"}, categories)
}
