package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"github.com/hassanhashmi16/Clothing-Store/repository"
	"github.com/hassanhashmi16/Clothing-Store/services"
)

func newProductTestService(repo *mockProductRepo) services.ProductService {
	return services.NewProductService(repo, zap.NewNop())
}

func createProductRequest(name string) *services.CreateProductRequest {
	stock := 10
	return &services.CreateProductRequest{
		Name:        name,
		Description: "test product",
		Price:       19.99,
		Category:    models.CategoryWomen,
		Subcategory: "dresses",
		Sizes:       []string{"S", "M"},
		Colors:      []string{"Red"},
		Images:      []string{"https://cdn.example.com/" + name + ".jpg"},
		Stock:       &stock,
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newMockProductRepo()
	svc := newProductTestService(repo)

	product, svcErr := svc.Create(context.Background(), createProductRequest("dress"))
	require.Nil(t, svcErr)
	assert.False(t, product.ID.IsZero())
	assert.Equal(t, "dress", product.Name)
	assert.Equal(t, 10, product.Stock)
}

func TestCreateProduct_RejectsUnknownCategory(t *testing.T) {
	svc := newProductTestService(newMockProductRepo())

	req := createProductRequest("dress")
	req.Category = "kids"

	_, svcErr := svc.Create(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestCreateProduct_RejectsNegativePriceAndStock(t *testing.T) {
	svc := newProductTestService(newMockProductRepo())

	req := createProductRequest("dress")
	req.Price = -1
	_, svcErr := svc.Create(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)

	req = createProductRequest("dress")
	negative := -5
	req.Stock = &negative
	_, svcErr = svc.Create(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestUpdateProduct_PartialFields(t *testing.T) {
	repo := newMockProductRepo()
	svc := newProductTestService(repo)

	product := repo.add(testProduct("tee", 19.99))

	price := 24.99
	featured := true
	updated, svcErr := svc.Update(context.Background(), &services.UpdateProductRequest{
		ID: product.ID.Hex(), Price: &price, Featured: &featured,
	})
	require.Nil(t, svcErr)

	assert.Equal(t, 24.99, updated.Price)
	assert.True(t, updated.Featured)
	// Untouched fields survive.
	assert.Equal(t, "tee", updated.Name)
}

func TestUpdateProduct_RejectsEmptyUpdate(t *testing.T) {
	repo := newMockProductRepo()
	svc := newProductTestService(repo)

	product := repo.add(testProduct("tee", 19.99))

	_, svcErr := svc.Update(context.Background(), &services.UpdateProductRequest{ID: product.ID.Hex()})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	svc := newProductTestService(newMockProductRepo())

	name := "renamed"
	_, svcErr := svc.Update(context.Background(), &services.UpdateProductRequest{
		ID: primitive.NewObjectID().Hex(), Name: &name,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestDeleteProduct(t *testing.T) {
	repo := newMockProductRepo()
	svc := newProductTestService(repo)

	product := repo.add(testProduct("tee", 19.99))

	require.Nil(t, svc.Delete(context.Background(), product.ID.Hex()))

	_, svcErr := svc.GetByID(context.Background(), product.ID.Hex())
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	svc := newProductTestService(newMockProductRepo())

	svcErr := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestListProducts_FiltersByCategory(t *testing.T) {
	repo := newMockProductRepo()
	svc := newProductTestService(repo)

	repo.add(testProduct("tee", 19.99))
	dress := testProduct("dress", 39.99)
	dress.Category = models.CategoryWomen
	repo.add(dress)

	products, total, svcErr := svc.List(context.Background(), repository.ProductQuery{Category: models.CategoryWomen})
	require.Nil(t, svcErr)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "dress", products[0].Name)
}

func TestListProducts_RejectsUnknownCategory(t *testing.T) {
	svc := newProductTestService(newMockProductRepo())

	_, _, svcErr := svc.List(context.Background(), repository.ProductQuery{Category: "kids"})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}
