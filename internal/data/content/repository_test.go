package content

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdaadmin/app/internal/data/database"
	"sdaadmin/app/internal/data/migrations"
	"sdaadmin/app/internal/domain/admin"
	domaincontent "sdaadmin/app/internal/domain/content"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	_, err := NewRepository(nil, silentLogger())
	assert.Error(t, err)
}

func TestListSortsByOrderAscending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "ordering.db")
	photos := mustResource(t, registry, admin.ResourceProjectPhotos)

	for _, photo := range []domaincontent.ProjectPhoto{
		{ProjectID: 1, ImageURL: "https://cdn.example/c.png", Order: 3},
		{ProjectID: 1, ImageURL: "https://cdn.example/a.png", Order: 1},
		{ProjectID: 2, ImageURL: "https://cdn.example/z.png", Order: 0},
		{ProjectID: 1, ImageURL: "https://cdn.example/b.png", Order: 2},
	} {
		record := photo
		require.NoError(t, repo.Create(ctx, photos, &record))
	}

	parent := uint(1)
	list, total, err := repo.List(ctx, photos, admin.Query{ParentID: &parent})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []int{1, 2, 3}, photoOrders(list))

	list, total, err = repo.List(ctx, photos, admin.Query{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []int{1, 2, 3, 0}, photoOrders(list))
}

func TestListOrdersTopLevelResourcesByOrderThenID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "approaches.db")
	approaches := mustResource(t, registry, admin.ResourceApproaches)

	for _, title := range []string{"Second", "First", "Third"} {
		order := map[string]int{"First": 1, "Second": 2, "Third": 2}[title]
		record := &domaincontent.Approach{Title: domaincontent.Text(title, "", ""), Order: order}
		require.NoError(t, repo.Create(ctx, approaches, record))
	}

	list, _, err := repo.List(ctx, approaches, admin.Query{})
	require.NoError(t, err)

	items := *list.(*[]domaincontent.Approach)
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, *item.Title.EN)
	}
	assert.Equal(t, []string{"First", "Second", "Third"}, titles)
}

func TestListSearchesLocalizedColumns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "search.db")
	projects := mustResource(t, registry, admin.ResourceProjects)

	for _, project := range []*domaincontent.Project{
		{Title: domaincontent.Text("Harbour Tower", "", "")},
		{Title: domaincontent.Text("", "Liman Qülləsi", "")},
		{Title: domaincontent.Text("100% Green Office", "", "")},
		{Title: domaincontent.Text("Villa", "", ""), Client: strPtr("Harbour Estates")},
	} {
		require.NoError(t, repo.Create(ctx, projects, project))
	}

	list, total, err := repo.List(ctx, projects, admin.Query{Search: "HARBOUR"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, *list.(*[]domaincontent.Project), 2)

	_, total, err = repo.List(ctx, projects, admin.Query{Search: "liman"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = repo.List(ctx, projects, admin.Query{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestListPaginates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "paging.db")
	logos := mustResource(t, registry, admin.ResourcePartnerLogos)

	for order := 1; order <= 5; order++ {
		record := &domaincontent.PartnerLogo{PartnerID: 1, ImageURL: "https://cdn.example/logo.png", Order: order}
		require.NoError(t, repo.Create(ctx, logos, record))
	}

	list, total, err := repo.List(ctx, logos, admin.Query{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	items := *list.(*[]domaincontent.PartnerLogo)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Order)
	assert.Equal(t, 4, items[1].Order)
}

func TestGetSaveAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "crud.db")
	news := mustResource(t, registry, admin.ResourceNews)

	missing, err := repo.Get(ctx, news, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	article := &domaincontent.News{
		Title: domaincontent.Text("Opening", "Açılış", ""),
		Tags:  domaincontent.Tags{"press", `say "hi"`},
	}
	require.NoError(t, repo.Create(ctx, news, article))
	assert.Equal(t, "Opening", article.TitleLegacy)

	loaded, err := repo.Get(ctx, news, article.ID)
	require.NoError(t, err)
	stored := loaded.(*domaincontent.News)
	assert.Equal(t, domaincontent.Tags{"press", `say "hi"`}, stored.Tags)

	stored.Tags = domaincontent.Tags{"updated"}
	require.NoError(t, repo.Save(ctx, news, stored))

	reloaded, err := repo.Get(ctx, news, article.ID)
	require.NoError(t, err)
	assert.Equal(t, domaincontent.Tags{"updated"}, reloaded.(*domaincontent.News).Tags)

	exists, err := repo.Exists(ctx, news, article.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.Count(ctx, news)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := repo.Delete(ctx, news, article.ID, nil)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, news, article.ID, nil)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteRemovesChildrenInTransaction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "cascade.db")
	projects := mustResource(t, registry, admin.ResourceProjects)
	photos := mustResource(t, registry, admin.ResourceProjectPhotos)

	project := &domaincontent.Project{Title: domaincontent.Text("Harbour Tower", "", "")}
	require.NoError(t, repo.Create(ctx, projects, project))
	other := &domaincontent.Project{Title: domaincontent.Text("Villa", "", "")}
	require.NoError(t, repo.Create(ctx, projects, other))

	for _, owner := range []uint{project.ID, project.ID, other.ID} {
		record := &domaincontent.ProjectPhoto{ProjectID: owner, ImageURL: "https://cdn.example/p.png"}
		require.NoError(t, repo.Create(ctx, photos, record))
	}

	deleted, err := repo.Delete(ctx, projects, project.ID, registry.Children(admin.ResourceProjects))
	require.NoError(t, err)
	assert.True(t, deleted)

	count, err := repo.Count(ctx, photos)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCreateDuplicateSlugReturnsConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, registry := setupRepository(t, "conflict.db")
	services := mustResource(t, registry, admin.ResourceServices)

	require.NoError(t, repo.Create(ctx, services, &domaincontent.Service{Slug: "fit-out"}))

	err := repo.Create(ctx, services, &domaincontent.Service{Slug: "fit-out"})
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrConflict)
}

func setupRepository(t *testing.T, filename string) (*Repository, *admin.Registry) {
	t.Helper()

	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), filename)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	logger := silentLogger()
	require.NoError(t, migrations.Migrate(context.Background(), db, logger, migrations.Options{ManageContent: true}))

	repo, err := NewRepository(db, logger)
	require.NoError(t, err)

	return repo, admin.DefaultRegistry()
}

func mustResource(t *testing.T, registry *admin.Registry, key string) *admin.Resource {
	t.Helper()

	res, err := registry.Get(key)
	require.NoError(t, err)
	return res
}

func photoOrders(list any) []int {
	photos := *list.(*[]domaincontent.ProjectPhoto)
	orders := make([]int, 0, len(photos))
	for _, photo := range photos {
		orders = append(orders, photo.Order)
	}
	return orders
}

func strPtr(value string) *string {
	return &value
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
