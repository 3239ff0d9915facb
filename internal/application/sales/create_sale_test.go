package sales_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/application/sales"
	"github.com/smartstore/backend/internal/domain"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/repository"
)

// ─────────────────────────────────────────────
// Fakes en memoria
// ─────────────────────────────────────────────

// fakeStore implementa los repositorios sobre mapas en memoria. fakeTx toma
// un snapshot antes de ejecutar fn y lo restaura si falla, imitando el
// rollback de una transacción real.
type fakeStore struct {
	products  map[int64]*entity.Product
	sales     map[int64]*entity.Sale
	items     []*entity.SaleItem
	movements []*entity.InventoryMovement

	nextSaleID int64
	nextItemID int64
	nextMovID  int64

	// failSaleCreates hace fallar los próximos N Create de venta con
	// ErrSequencingConflict, para ejercitar el reintento.
	failSaleCreates int
}

func newFakeStore(products ...*entity.Product) *fakeStore {
	s := &fakeStore{products: map[int64]*entity.Product{}, sales: map[int64]*entity.Sale{}}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) clone() *fakeStore {
	c := &fakeStore{
		products:        map[int64]*entity.Product{},
		sales:           map[int64]*entity.Sale{},
		items:           append([]*entity.SaleItem(nil), s.items...),
		movements:       append([]*entity.InventoryMovement(nil), s.movements...),
		nextSaleID:      s.nextSaleID,
		nextItemID:      s.nextItemID,
		nextMovID:       s.nextMovID,
		failSaleCreates: s.failSaleCreates,
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, v := range s.sales {
		cv := *v
		c.sales[id] = &cv
	}
	return c
}

// ── ProductRepository ──

func (s *fakeStore) Create(ctx context.Context, p *entity.Product) error { panic("no usado") }

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return s.products[id], nil
}

func (s *fakeStore) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return s.products[id], nil
}

func (s *fakeStore) Update(ctx context.Context, p *entity.Product) error { panic("no usado") }

func (s *fakeStore) SetQuantity(ctx context.Context, productID int64, quantity decimal.Decimal, at time.Time) error {
	s.products[productID].Quantity = quantity
	return nil
}

func (s *fakeStore) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	panic("no usado")
}

func (s *fakeStore) ListActive(ctx context.Context) ([]*entity.Product, error) { panic("no usado") }

func (s *fakeStore) Deactivate(ctx context.Context, id int64) error { panic("no usado") }

// ── SaleRepository (parcial; Create y GetByID van en fakeSaleRepo) ──

func (s *fakeStore) CreateItem(ctx context.Context, item *entity.SaleItem) error {
	s.nextItemID++
	item.ID = s.nextItemID
	cp := *item
	s.items = append(s.items, &cp)
	return nil
}

func (s *fakeStore) GetItems(ctx context.Context, saleID int64) ([]repository.SaleItemWithProduct, error) {
	var out []repository.SaleItemWithProduct
	for _, it := range s.items {
		if it.SaleID == saleID {
			out = append(out, repository.SaleItemWithProduct{SaleItem: *it})
		}
	}
	return out, nil
}

func (s *fakeStore) LastInvoiceNumberOfDay(ctx context.Context, day string) (string, error) {
	last := ""
	for _, v := range s.sales {
		if len(v.InvoiceNumber) >= 12 && v.InvoiceNumber[4:12] == day && v.InvoiceNumber > last {
			last = v.InvoiceNumber
		}
	}
	return last, nil
}

func (s *fakeStore) ListWithItems(ctx context.Context, f repository.SalesFilter) ([]*repository.SaleWithItems, error) {
	var ids []int64
	for id := range s.sales {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] }) // más recientes primero
	var out []*repository.SaleWithItems
	for _, id := range ids {
		v := s.sales[id]
		if v.SaleDate.Before(f.Start) || v.SaleDate.After(f.End) {
			continue
		}
		if f.PaymentMethod != "" && v.PaymentMethod != f.PaymentMethod {
			continue
		}
		if f.MinAmount != nil && v.FinalAmount.LessThan(*f.MinAmount) {
			continue
		}
		if f.MaxAmount != nil && v.FinalAmount.GreaterThan(*f.MaxAmount) {
			continue
		}
		items, _ := s.GetItems(ctx, id)
		out = append(out, &repository.SaleWithItems{Sale: *v, Items: items})
	}
	return out, nil
}

func (s *fakeStore) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	v, ok := s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	v.PaymentStatus = status
	return nil
}

// ── InventoryMovementRepository ──

func (s *fakeStore) ListByProduct(ctx context.Context, productID int64, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	panic("no usado")
}

// fakeSaleRepo completa SaleRepository sobre fakeStore. Create y GetByID no
// pueden vivir en fakeStore porque chocan con las firmas de ProductRepository.
type fakeSaleRepo struct{ *fakeStore }

func (s *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if s.failSaleCreates > 0 {
		s.failSaleCreates--
		return domain.ErrSequencingConflict
	}
	for _, existing := range s.sales {
		if existing.InvoiceNumber == sale.InvoiceNumber {
			return domain.ErrSequencingConflict
		}
	}
	s.nextSaleID++
	sale.ID = s.nextSaleID
	cp := *sale
	s.sales[sale.ID] = &cp
	return nil
}

func (s *fakeSaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	v, ok := s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

// fakeTx adapta fakeStore a sales.TxRunner entregando el wrapper de ventas.
type fakeTx struct{ store *fakeStore }

func (t *fakeTx) RunSale(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	snapshot := t.store.clone()
	if err := fn(t.store, &fakeSaleRepo{t.store}, t.store); err != nil {
		// El contador de fallos inyectados sobrevive al rollback; si no, el
		// reintento volvería a fallar siempre.
		remaining := t.store.failSaleCreates
		*t.store = *snapshot
		t.store.failSaleCreates = remaining
		return err
	}
	return nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func producto(id int64, name, selling, purchase, qty string) *entity.Product {
	return &entity.Product{
		ID:            id,
		Name:          name,
		SellingPrice:  dec(selling),
		PurchasePrice: dec(purchase),
		Quantity:      dec(qty),
		IsActive:      true,
	}
}

func buildUseCase(products ...*entity.Product) (*sales.CreateSaleUseCase, *fakeStore) {
	store := newFakeStore(products...)
	uc := sales.NewCreateSaleUseCase(&fakeTx{store}, &fakeSaleRepo{store})
	return uc, store
}

func item(productID int64, qty string) dto.SaleItemRequest {
	return dto.SaleItemRequest{ProductID: productID, Quantity: dec(qty)}
}

// ─────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────

func TestCreateSale_VentaSimpleCalculaTotalesYFactura(t *testing.T) {
	uc, store := buildUseCase(
		producto(1, "أرز بسمتي", "10", "7", "20"),
		producto(2, "سكر", "4", "3", "50"),
	)

	resp, err := uc.CreateSale(context.Background(), 9, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "2"), item(2, "5")},
	})
	require.NoError(t, err)

	// 2×10 + 5×4 = 40
	assert.True(t, dec("40").Equal(resp.TotalAmount), "got %s", resp.TotalAmount)
	assert.True(t, dec("40").Equal(resp.FinalAmount))
	assert.Equal(t, entity.PaymentMethodCash, resp.PaymentMethod)
	assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)
	assert.Regexp(t, `^INV-\d{8}-0001$`, resp.InvoiceNumber)

	// Ganancia: 2×3 + 5×1 = 11
	assert.Equal(t, 2, resp.Summary.TotalItems)
	assert.True(t, dec("7").Equal(resp.Summary.TotalQuantity))
	assert.True(t, dec("11").Equal(resp.Summary.TotalProfit), "got %s", resp.Summary.TotalProfit)

	// Stock decrementado.
	assert.True(t, dec("18").Equal(store.products[1].Quantity))
	assert.True(t, dec("45").Equal(store.products[2].Quantity))
}

func TestCreateSale_DescuentoEImpuestoEnMontoFinal(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "زيت", "25", "18", "10"))

	resp, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items:          []dto.SaleItemRequest{item(1, "4")},
		DiscountAmount: dec("10"),
		TaxAmount:      dec("5"),
	})
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(resp.TotalAmount))
	// 100 - 10 + 5 = 95
	assert.True(t, dec("95").Equal(resp.FinalAmount), "got %s", resp.FinalAmount)
}

func TestCreateSale_PrecioUnitarioSobrescrito(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "شاي", "12", "8", "10"))

	override := dec("11")
	resp, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: 1, Quantity: dec("2"), UnitPrice: &override}},
	})
	require.NoError(t, err)
	assert.True(t, dec("22").Equal(resp.TotalAmount))
	// La ganancia usa el precio efectivo: (11-8)×2 = 6
	assert.True(t, dec("6").Equal(resp.Summary.TotalProfit))
}

func TestCreateSale_PrecioCeroUsaPrecioDeCatalogo(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "شاي", "12", "8", "10"))

	zero := decimal.Zero
	resp, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductID: 1, Quantity: dec("1"), UnitPrice: &zero}},
	})
	require.NoError(t, err)
	assert.True(t, dec("12").Equal(resp.TotalAmount))
}

func TestCreateSale_StockInsuficienteNoDejaEfectos(t *testing.T) {
	uc, store := buildUseCase(
		producto(1, "حليب", "6", "4", "10"),
		producto(2, "خبز", "2", "1", "3"),
	)

	_, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "2"), item(2, "5")},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "خبز")

	// Nada cambió: ni stock, ni ventas, ni movimientos.
	assert.True(t, dec("10").Equal(store.products[1].Quantity))
	assert.True(t, dec("3").Equal(store.products[2].Quantity))
	assert.Empty(t, store.sales)
	assert.Empty(t, store.movements)
}

func TestCreateSale_ProductoRepetidoSeAcumulaContraElStock(t *testing.T) {
	// Dos líneas del mismo producto: la verificación de stock es sobre la
	// suma, y los movimientos encadenan previous/new correctamente.
	uc, store := buildUseCase(producto(1, "قهوة", "15", "10", "5"))

	resp, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "3"), item(1, "2")},
	})
	require.NoError(t, err)
	assert.True(t, dec("75").Equal(resp.TotalAmount))
	assert.True(t, store.products[1].Quantity.IsZero())

	require.Len(t, store.movements, 2)
	assert.True(t, dec("5").Equal(store.movements[0].PreviousQuantity))
	assert.True(t, dec("2").Equal(store.movements[0].NewQuantity))
	assert.True(t, dec("2").Equal(store.movements[1].PreviousQuantity))
	assert.True(t, store.movements[1].NewQuantity.IsZero())
}

func TestCreateSale_ProductoRepetidoExcedeStock(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "قهوة", "15", "10", "5"))

	_, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "3"), item(1, "3")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "ماء", "1", "0.5", "10"))

	_, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(99, "1")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateSale_ProductoInactivo(t *testing.T) {
	p := producto(1, "منتج قديم", "5", "3", "10")
	p.IsActive = false
	uc, _ := buildUseCase(p)

	_, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "1")},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateSale_Validaciones(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "ماء", "1", "0.5", "10"))
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, 1, dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateSale(ctx, 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "0")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = uc.CreateSale(ctx, 1, dto.CreateSaleRequest{
		Items:          []dto.SaleItemRequest{item(1, "1")},
		DiscountAmount: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento negativo")

	_, err = uc.CreateSale(ctx, 1, dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{item(1, "1")},
		PaymentMethod: "cheque",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método de pago desconocido")
}

func TestCreateSale_NumerosDeFacturaConsecutivos(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "ماء", "1", "0.5", "100"))
	ctx := context.Background()

	r1, err := uc.CreateSale(ctx, 1, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(1, "1")}})
	require.NoError(t, err)
	r2, err := uc.CreateSale(ctx, 1, dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(1, "1")}})
	require.NoError(t, err)

	assert.Regexp(t, `-0001$`, r1.InvoiceNumber)
	assert.Regexp(t, `-0002$`, r2.InvoiceNumber)
}

func TestCreateSale_ReintentaTrasConflictoDeNumeracion(t *testing.T) {
	uc, store := buildUseCase(producto(1, "ماء", "1", "0.5", "10"))
	store.failSaleCreates = 1

	resp, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "2")},
	})
	require.NoError(t, err)
	assert.Regexp(t, `-0001$`, resp.InvoiceNumber)

	// El intento fallido no decrementó stock dos veces.
	assert.True(t, dec("8").Equal(store.products[1].Quantity), "got %s", store.products[1].Quantity)
	assert.Len(t, store.movements, 1)
}

func TestCreateSale_ConflictoPersistenteSeRinde(t *testing.T) {
	uc, store := buildUseCase(producto(1, "ماء", "1", "0.5", "10"))
	store.failSaleCreates = 10 // más que los reintentos permitidos

	_, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "1")},
	})
	assert.ErrorIs(t, err, domain.ErrSequencingConflict)
	assert.True(t, dec("10").Equal(store.products[1].Quantity))
}

func TestCreateSale_MovimientosDeInventario(t *testing.T) {
	uc, store := buildUseCase(producto(1, "أرز", "10", "7", "20"))

	resp, err := uc.CreateSale(context.Background(), 5, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "3")},
	})
	require.NoError(t, err)

	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.Equal(t, entity.ChangeTypeSale, mov.ChangeType)
	assert.True(t, dec("-3").Equal(mov.QuantityChange))
	assert.True(t, dec("20").Equal(mov.PreviousQuantity))
	assert.True(t, dec("17").Equal(mov.NewQuantity))
	require.NotNil(t, mov.ReferenceID)
	assert.Equal(t, resp.ID, *mov.ReferenceID)
	assert.Equal(t, entity.ReferenceTypeSale, mov.ReferenceType)
	assert.NotEmpty(t, mov.TransactionID)
	assert.Equal(t, int64(5), mov.CreatedBy)
	assert.Contains(t, mov.Reason, resp.InvoiceNumber)
}

func TestCreateSale_VentasSecuencialesAgotanStock(t *testing.T) {
	// Dos ventas de 3 unidades sobre stock 5: la primera pasa, la segunda
	// falla y el stock final queda en 2.
	uc, store := buildUseCase(producto(1, "عصير", "3", "2", "5"))
	ctx := context.Background()
	req := dto.CreateSaleRequest{Items: []dto.SaleItemRequest{item(1, "3")}}

	_, err := uc.CreateSale(ctx, 1, req)
	require.NoError(t, err)

	_, err = uc.CreateSale(ctx, 1, req)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, dec("2").Equal(store.products[1].Quantity))
}

func TestListSales_FiltraPorMetodoYRango(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "أرز", "10", "7", "100"))
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "2")},
	})
	require.NoError(t, err)
	_, err = uc.CreateSale(ctx, 1, dto.CreateSaleRequest{
		Items:         []dto.SaleItemRequest{item(1, "1")},
		PaymentMethod: entity.PaymentMethodCard,
	})
	require.NoError(t, err)

	all, err := uc.ListSales(ctx, dto.SalesListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Más reciente primero, con líneas y resumen reconstruidos.
	assert.Regexp(t, `-0002$`, all[0].InvoiceNumber)
	require.Len(t, all[0].Items, 1)
	assert.Equal(t, 1, all[0].Summary.TotalItems)

	soloCard, err := uc.ListSales(ctx, dto.SalesListRequest{PaymentMethod: entity.PaymentMethodCard})
	require.NoError(t, err)
	require.Len(t, soloCard, 1)
	assert.Equal(t, entity.PaymentMethodCard, soloCard[0].PaymentMethod)

	_, err = uc.ListSales(ctx, dto.SalesListRequest{PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdatePaymentStatus_TransicionValida(t *testing.T) {
	uc, store := buildUseCase(producto(1, "ماء", "1", "0.5", "10"))
	resp, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "1")},
	})
	require.NoError(t, err)

	err = uc.UpdatePaymentStatus(context.Background(), resp.ID, entity.PaymentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCancelled, store.sales[resp.ID].PaymentStatus)

	// cancelled es terminal.
	err = uc.UpdatePaymentStatus(context.Background(), resp.ID, entity.PaymentStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusChange)
}

func TestUpdatePaymentStatus_VentaInexistente(t *testing.T) {
	uc, _ := buildUseCase()
	err := uc.UpdatePaymentStatus(context.Background(), 404, entity.PaymentStatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetSale_ReconstruyeResumen(t *testing.T) {
	uc, _ := buildUseCase(producto(1, "أرز", "10", "7", "20"))
	created, err := uc.CreateSale(context.Background(), 1, dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{item(1, "2")},
	})
	require.NoError(t, err)

	got, err := uc.GetSale(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 1, got.Summary.TotalItems)
	assert.True(t, dec("6").Equal(got.Summary.TotalProfit), "got %s", got.Summary.TotalProfit)
}
