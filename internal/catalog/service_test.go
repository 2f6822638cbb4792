package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stationeryhq/stationery-server/internal/assets"
	"github.com/stationeryhq/stationery-server/internal/domain"
)

var testDBSeq int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:catalogtest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))
	return db
}

func newTestService(t *testing.T) (*Service, *assets.Store) {
	t.Helper()
	store, err := assets.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewService(NewGormProductRepository(openTestDB(t)), store), store
}

// placeAsset drops a file into the store directory and returns the public
// path a product would reference it by.
func placeAsset(t *testing.T, store *assets.Store, name string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), name), []byte("img"), 0o644))
	return assets.PublicPrefix + "/" + name
}

func strPtr(v string) *string { return &v }

func baseFields() Fields {
	return Fields{
		Name:     strPtr("Notebook A5"),
		Price:    strPtr("4.50"),
		Quantity: strPtr("10"),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		svc, _ := newTestService(t)

		created, err := svc.Create(ctx, CreateInput{Fields: baseFields()})
		require.NoError(t, err)
		require.NotZero(t, created.ID)
		assert.Empty(t, created.ImageUrls)

		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, 4.50, got.Price)
		assert.Equal(t, 10, got.Quantity)
	})

	t.Run("ZeroValuesAreValid", func(t *testing.T) {
		svc, _ := newTestService(t)

		f := baseFields()
		f.Price = strPtr("0")
		f.Quantity = strPtr("0")
		p, err := svc.Create(ctx, CreateInput{Fields: f})
		require.NoError(t, err)
		assert.Zero(t, p.Price)
		assert.Zero(t, p.Quantity)
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		svc, _ := newTestService(t)

		f := baseFields()
		f.Quantity = nil
		_, err := svc.Create(ctx, CreateInput{Fields: f})
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("MalformedPrice", func(t *testing.T) {
		svc, _ := newTestService(t)

		f := baseFields()
		f.Price = strPtr("not-a-number")
		_, err := svc.Create(ctx, CreateInput{Fields: f})
		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("DuplicateSku", func(t *testing.T) {
		svc, _ := newTestService(t)

		f := baseFields()
		f.Sku = strPtr("NB-A5-001")
		_, err := svc.Create(ctx, CreateInput{Fields: f})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateInput{Fields: f})
		assert.ErrorIs(t, err, ErrDuplicateSku)
	})

	t.Run("AbsentSkusNeverCollide", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Create(ctx, CreateInput{Fields: baseFields()})
		require.NoError(t, err)
		_, err = svc.Create(ctx, CreateInput{Fields: baseFields()})
		require.NoError(t, err)
	})

	t.Run("UploadBeatsExternalURL", func(t *testing.T) {
		svc, store := newTestService(t)
		local := placeAsset(t, store, "productImage-100.png")

		p, err := svc.Create(ctx, CreateInput{
			Fields:           baseFields(),
			UploadPath:       local,
			ExternalImageURL: "https://cdn.example.com/a.png",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{local}, p.ImageUrls)
	})

	t.Run("ExternalURLWhenNoUpload", func(t *testing.T) {
		svc, _ := newTestService(t)

		p, err := svc.Create(ctx, CreateInput{
			Fields:           baseFields(),
			ExternalImageURL: "  https://cdn.example.com/a.png  ",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"https://cdn.example.com/a.png"}, p.ImageUrls)
	})

	t.Run("UploadDiscardedOnDuplicateSku", func(t *testing.T) {
		svc, store := newTestService(t)

		f := baseFields()
		f.Sku = strPtr("NB-A5-002")
		_, err := svc.Create(ctx, CreateInput{Fields: f})
		require.NoError(t, err)

		local := placeAsset(t, store, "productImage-101.png")
		_, err = svc.Create(ctx, CreateInput{Fields: f, UploadPath: local})
		assert.ErrorIs(t, err, ErrDuplicateSku)
		assert.NoFileExists(t, filepath.Join(store.Dir(), "productImage-101.png"))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	mk := func(name, category string) {
		f := baseFields()
		f.Name = strPtr(name)
		f.Category = strPtr(category)
		_, err := svc.Create(ctx, CreateInput{Fields: f})
		require.NoError(t, err)
	}
	mk("Notebook A5", "Notebooks")
	mk("Notebook A6", "Notebooks")
	mk("Fountain Pen", "Pens")

	t.Run("All", func(t *testing.T) {
		products, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("CategorySubstringCaseInsensitive", func(t *testing.T) {
		products, err := svc.List(ctx, "noteBOOK")
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("NoMatches", func(t *testing.T) {
		products, err := svc.List(ctx, "stickers")
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("PartialFieldUpdate", func(t *testing.T) {
		svc, _ := newTestService(t)

		f := baseFields()
		f.Description = strPtr("ruled paper")
		f.Category = strPtr("Notebooks")
		f.Sku = strPtr("NB-A5-010")
		created, err := svc.Create(ctx, CreateInput{Fields: f})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateInput{
			Fields: Fields{Price: strPtr("9.99")},
		})
		require.NoError(t, err)

		assert.Equal(t, 9.99, updated.Price)
		assert.Equal(t, "Notebook A5", updated.Name)
		assert.Equal(t, "ruled paper", updated.Description)
		assert.Equal(t, "Notebooks", updated.Category)
		require.NotNil(t, updated.Sku)
		assert.Equal(t, "NB-A5-010", *updated.Sku)
		assert.Equal(t, 10, updated.Quantity)
		assert.Empty(t, updated.ImageUrls)
	})

	t.Run("ClearImageRemovesLocalFile", func(t *testing.T) {
		svc, store := newTestService(t)
		local := placeAsset(t, store, "productImage-200.png")

		created, err := svc.Create(ctx, CreateInput{Fields: baseFields(), UploadPath: local})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateInput{ClearImage: true})
		require.NoError(t, err)

		assert.Empty(t, updated.ImageUrls)
		assert.NoFileExists(t, filepath.Join(store.Dir(), "productImage-200.png"))
	})

	t.Run("NewUploadReplacesAndDeletesOld", func(t *testing.T) {
		svc, store := newTestService(t)
		oldLocal := placeAsset(t, store, "productImage-201.png")
		newLocal := placeAsset(t, store, "productImage-202.png")

		created, err := svc.Create(ctx, CreateInput{Fields: baseFields(), UploadPath: oldLocal})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateInput{UploadPath: newLocal})
		require.NoError(t, err)

		assert.Equal(t, []string{newLocal}, updated.ImageUrls)
		assert.NoFileExists(t, filepath.Join(store.Dir(), "productImage-201.png"))
		assert.FileExists(t, filepath.Join(store.Dir(), "productImage-202.png"))
	})

	t.Run("BlankExternalURLKeyClearsImage", func(t *testing.T) {
		svc, store := newTestService(t)
		local := placeAsset(t, store, "productImage-203.png")

		created, err := svc.Create(ctx, CreateInput{Fields: baseFields(), UploadPath: local})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateInput{
			ExternalImageURL: strPtr("   "),
		})
		require.NoError(t, err)

		assert.Empty(t, updated.ImageUrls)
		assert.NoFileExists(t, filepath.Join(store.Dir(), "productImage-203.png"))
	})

	t.Run("AbsentImageKeysLeaveImageUnchanged", func(t *testing.T) {
		svc, store := newTestService(t)
		local := placeAsset(t, store, "productImage-204.png")

		created, err := svc.Create(ctx, CreateInput{Fields: baseFields(), UploadPath: local})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, created.ID, UpdateInput{
			Fields: Fields{Name: strPtr("Notebook A5 ruled")},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{local}, updated.ImageUrls)
		assert.FileExists(t, filepath.Join(store.Dir(), "productImage-204.png"))
	})

	t.Run("NotFoundDiscardsUpload", func(t *testing.T) {
		svc, store := newTestService(t)
		local := placeAsset(t, store, "productImage-205.png")

		_, err := svc.Update(ctx, 424242, UpdateInput{UploadPath: local})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoFileExists(t, filepath.Join(store.Dir(), "productImage-205.png"))
	})

	t.Run("DuplicateSku", func(t *testing.T) {
		svc, _ := newTestService(t)

		f := baseFields()
		f.Sku = strPtr("NB-A5-020")
		_, err := svc.Create(ctx, CreateInput{Fields: f})
		require.NoError(t, err)

		other, err := svc.Create(ctx, CreateInput{Fields: baseFields()})
		require.NoError(t, err)

		_, err = svc.Update(ctx, other.ID, UpdateInput{
			Fields: Fields{Sku: strPtr("NB-A5-020")},
		})
		assert.ErrorIs(t, err, ErrDuplicateSku)
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesRecordAndLocalAsset", func(t *testing.T) {
		svc, store := newTestService(t)
		local := placeAsset(t, store, "productImage-300.png")

		created, err := svc.Create(ctx, CreateInput{Fields: baseFields(), UploadPath: local})
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, created.ID))

		_, err = svc.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoFileExists(t, filepath.Join(store.Dir(), "productImage-300.png"))
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.ErrorIs(t, svc.Remove(ctx, 424242), ErrNotFound)
	})
}
