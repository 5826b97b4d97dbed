package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"github.com/hassanhashmi16/Clothing-Store/repository"
	"github.com/hassanhashmi16/Clothing-Store/services"
)

// --- Mock Product Repository ---

type mockProductRepo struct {
	products map[primitive.ObjectID]*models.Product
	order    []primitive.ObjectID
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (m *mockProductRepo) add(p *models.Product) *models.Product {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID] = p
	m.order = append(m.order, p.ID)
	return p
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

func (m *mockProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	result := make(map[primitive.ObjectID]*models.Product)
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

func (m *mockProductRepo) List(_ context.Context, q repository.ProductQuery) ([]models.Product, int64, error) {
	var out []models.Product
	for _, id := range m.order {
		p := m.products[id]
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Featured != nil && p.Featured != *q.Featured {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) ListAll(_ context.Context) ([]models.Product, error) {
	var out []models.Product
	for _, id := range m.order {
		out = append(out, *m.products[id])
	}
	return out, nil
}

func (m *mockProductRepo) Create(_ context.Context, p *models.Product) error {
	m.add(p)
	p.CreatedAt = time.Now()
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, id primitive.ObjectID, updates bson.M) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if name, ok := updates["name"].(string); ok {
		p.Name = name
	}
	if price, ok := updates["price"].(float64); ok {
		p.Price = price
	}
	if stock, ok := updates["stock"].(int); ok {
		p.Stock = stock
	}
	if featured, ok := updates["featured"].(bool); ok {
		p.Featured = featured
	}
	return p, nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	if _, ok := m.products[id]; !ok {
		return false, nil
	}
	delete(m.products, id)
	return true, nil
}

// --- Mock Cart Repository ---

type mockCartRepo struct {
	carts map[primitive.ObjectID]*models.Cart
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func (m *mockCartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return nil, nil
	}
	return cart, nil
}

func (m *mockCartRepo) IncrementItem(_ context.Context, userID, productID primitive.ObjectID, quantity int, size, color string) (bool, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].SameVariant(productID, size, color) {
			cart.Items[i].Quantity += quantity
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCartRepo) PushItem(_ context.Context, userID primitive.ObjectID, item models.CartItem) error {
	cart, ok := m.carts[userID]
	if !ok {
		cart = &models.Cart{ID: primitive.NewObjectID(), UserID: userID}
		m.carts[userID] = cart
	}
	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = time.Now()
	return nil
}

func (m *mockCartRepo) SetItemQuantity(_ context.Context, userID, itemID primitive.ObjectID, quantity int) (bool, error) {
	cart, ok := m.carts[userID]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCartRepo) RemoveItem(_ context.Context, userID, itemID primitive.ObjectID) error {
	cart, ok := m.carts[userID]
	if !ok {
		return nil
	}
	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	cart.Items = items
	cart.UpdatedAt = time.Now()
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, userID primitive.ObjectID) error {
	if cart, ok := m.carts[userID]; ok {
		cart.Items = []models.CartItem{}
		cart.UpdatedAt = time.Now()
	}
	return nil
}

// --- Helpers ---

func testProduct(name string, price float64) *models.Product {
	return &models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Category:    models.CategoryMen,
		Subcategory: "shirts",
		Sizes:       []string{"S", "M", "L"},
		Colors:      []string{"Black", "White"},
		Images:      []string{"https://cdn.example.com/" + name + ".jpg"},
		Stock:       10,
		CreatedAt:   time.Now(),
	}
}

func newCartTestService(cartRepo *mockCartRepo, productRepo *mockProductRepo) services.CartService {
	return services.NewCartService(cartRepo, productRepo, zap.NewNop())
}

// --- Tests ---

func TestAddItem_MergesSameVariant(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	_, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 2, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	cart, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 3, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItem_DifferentColorCreatesNewLine(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	_, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	cart, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "M", Color: "White",
	})
	require.Nil(t, svcErr)

	assert.Len(t, cart.Items, 2)
}

func TestAddItem_RejectsSizeNotOffered(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))

	_, svcErr := svc.AddItem(context.Background(), primitive.NewObjectID().Hex(), &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "XXL", Color: "Black",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 400, svcErr.StatusCode)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	svc := newCartTestService(newMockCartRepo(), newMockProductRepo())

	_, svcErr := svc.AddItem(context.Background(), primitive.NewObjectID().Hex(), &services.AddItemRequest{
		ProductID: primitive.NewObjectID().Hex(), Quantity: 1, Size: "M", Color: "Black",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestGetCart_EmptyViewWhenNoCartExists(t *testing.T) {
	svc := newCartTestService(newMockCartRepo(), newMockProductRepo())

	cart, svcErr := svc.GetCart(context.Background(), primitive.NewObjectID().Hex())
	require.Nil(t, svcErr)
	assert.Empty(t, cart.Items)
}

func TestGetCart_ResolvesLiveProductData(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	_, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	// A price edit shows up in the cart view: cart lines reference
	// live catalog data, unlike order snapshots.
	product.Price = 24.99

	cart, svcErr := svc.GetCart(context.Background(), userID)
	require.Nil(t, svcErr)
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, 24.99, cart.Items[0].Product.Price)
}

func TestUpdateQuantity_RejectsNonPositive(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	cart, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 2, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)
	itemID := cart.Items[0].ID.Hex()

	for _, quantity := range []int{0, -1} {
		_, svcErr := svc.UpdateQuantity(context.Background(), userID, &services.UpdateItemRequest{
			ItemID: itemID, Quantity: quantity,
		})
		require.NotNil(t, svcErr)
		assert.Equal(t, 400, svcErr.StatusCode)
	}

	// Cart unchanged after the rejected updates.
	cart, svcErr = svc.GetCart(context.Background(), userID)
	require.Nil(t, svcErr)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestUpdateQuantity_SetsExactValue(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	cart, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 2, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	cart, svcErr = svc.UpdateQuantity(context.Background(), userID, &services.UpdateItemRequest{
		ItemID: cart.Items[0].ID.Hex(), Quantity: 7,
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestUpdateQuantity_ItemNotFound(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	_, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	_, svcErr = svc.UpdateQuantity(context.Background(), userID, &services.UpdateItemRequest{
		ItemID: primitive.NewObjectID().Hex(), Quantity: 3,
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestRemoveItem_AbsentItemIsNoop(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	_, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	cart, svcErr := svc.RemoveItem(context.Background(), userID, primitive.NewObjectID().Hex())
	require.Nil(t, svcErr)
	assert.Len(t, cart.Items, 1)
}

func TestRemoveItem_NoCart(t *testing.T) {
	svc := newCartTestService(newMockCartRepo(), newMockProductRepo())

	_, svcErr := svc.RemoveItem(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	require.NotNil(t, svcErr)
	assert.Equal(t, 404, svcErr.StatusCode)
}

func TestClearCart(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := newCartTestService(cartRepo, productRepo)

	product := productRepo.add(testProduct("tee", 19.99))
	userID := primitive.NewObjectID().Hex()

	_, svcErr := svc.AddItem(context.Background(), userID, &services.AddItemRequest{
		ProductID: product.ID.Hex(), Quantity: 1, Size: "M", Color: "Black",
	})
	require.Nil(t, svcErr)

	require.Nil(t, svc.ClearCart(context.Background(), userID))

	cart, svcErr := svc.GetCart(context.Background(), userID)
	require.Nil(t, svcErr)
	assert.Empty(t, cart.Items)
}
