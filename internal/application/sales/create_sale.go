package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smartstore/backend/internal/application/dto"
	"github.com/smartstore/backend/internal/domain"
	"github.com/smartstore/backend/internal/domain/entity"
	"github.com/smartstore/backend/internal/domain/invoice"
	"github.com/smartstore/backend/internal/domain/repository"
	domsale "github.com/smartstore/backend/internal/domain/sale"
)

// maxSequencingRetries reintentos de la transacción completa cuando dos ventas
// concurrentes reciben el mismo consecutivo de factura.
const maxSequencingRetries = 3

// CreateSaleUseCase procesa ventas de forma transaccional: valida stock,
// calcula montos con funciones puras, asigna el número de factura y confirma
// venta, líneas, decrementos de stock y movimientos en una sola unidad atómica.
type CreateSaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository // lecturas fuera de la transacción
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, saleRepo: saleRepo}
}

// CreateSale crea la venta. userID es el usuario que actúa, pasado explícito
// desde el handler. Los errores de validación y de negocio no dejan efectos.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID int64, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la venta necesita al menos una línea", domain.ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.ProductID <= 0 || !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad inválida para el producto %d", domain.ErrInvalidInput, item.ProductID)
		}
		if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
		}
	}
	if in.DiscountAmount.IsNegative() || in.TaxAmount.IsNegative() {
		return nil, fmt.Errorf("%w: descuento e impuesto deben ser no negativos", domain.ErrInvalidInput)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}

	// El conflicto de numeración es transitorio: se reintenta la transacción
	// completa y nunca se expone al caller si un reintento tiene éxito.
	var resp *dto.SaleResponse
	var err error
	for attempt := 0; attempt < maxSequencingRetries; attempt++ {
		resp, err = uc.createOnce(ctx, userID, in)
		if !errors.Is(err, domain.ErrSequencingConflict) {
			return resp, err
		}
	}
	return nil, err
}

// createOnce ejecuta un intento de la transacción de venta.
func (uc *CreateSaleUseCase) createOnce(ctx context.Context, userID int64, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	now := time.Now()
	var out *dto.SaleResponse

	err := uc.txRunner.RunSale(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
	) error {
		// 1) Bloquear las filas de producto en orden de id ascendente para
		// evitar deadlocks entre ventas concurrentes con productos cruzados.
		requested := map[int64]decimal.Decimal{}
		ids := make([]int64, 0, len(in.Items))
		for _, item := range in.Items {
			if _, seen := requested[item.ProductID]; !seen {
				ids = append(ids, item.ProductID)
			}
			requested[item.ProductID] = requested[item.ProductID].Add(item.Quantity)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		products := make(map[int64]*entity.Product, len(ids))
		for _, id := range ids {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || !p.IsActive {
				return fmt.Errorf("%w: producto %d", domain.ErrProductNotFound, id)
			}
			// 2) Verificar stock contra el total solicitado del producto.
			if p.Quantity.LessThan(requested[id]) {
				return fmt.Errorf("%w: producto %q, disponible %s, solicitado %s",
					domain.ErrInsufficientStock, p.Name, p.Quantity, requested[id])
			}
			products[id] = p
		}

		// 3) Resolver precio efectivo y derivar totales con funciones puras.
		lines := make([]domsale.Line, 0, len(in.Items))
		for _, item := range in.Items {
			p := products[item.ProductID]
			unitPrice := p.SellingPrice
			if item.UnitPrice != nil && !item.UnitPrice.IsZero() {
				unitPrice = *item.UnitPrice
			}
			lines = append(lines, domsale.Line{
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				UnitPrice:     unitPrice,
				PurchasePrice: p.PurchasePrice, // snapshot al momento de la lectura
			})
		}
		totalAmount := domsale.TotalAmount(lines)
		finalAmount := domsale.FinalAmount(totalAmount, in.DiscountAmount, in.TaxAmount)

		// 4) Asignar número de factura dentro del mismo alcance transaccional.
		last, err := saleRepo.LastInvoiceNumberOfDay(ctx, now.Format("20060102"))
		if err != nil {
			return err
		}
		number := invoice.Next(now, last)

		// 5) Persistir cabecera. Un duplicado del número aborta con
		// ErrSequencingConflict y el caller reintenta todo.
		sale := &entity.Sale{
			InvoiceNumber:  number,
			CustomerName:   in.CustomerName,
			CustomerPhone:  in.CustomerPhone,
			TotalAmount:    totalAmount,
			DiscountAmount: in.DiscountAmount,
			TaxAmount:      in.TaxAmount,
			FinalAmount:    finalAmount,
			PaymentMethod:  in.PaymentMethod,
			PaymentStatus:  entity.PaymentStatusPaid,
			SaleDate:       now,
			Notes:          in.Notes,
			CreatedBy:      userID,
			CreatedAt:      now,
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		// 6) Persistir líneas.
		itemResponses := make([]dto.SaleItemResponse, 0, len(lines))
		for _, l := range lines {
			item := &entity.SaleItem{
				SaleID:        sale.ID,
				ProductID:     l.ProductID,
				Quantity:      l.Quantity,
				UnitPrice:     l.UnitPrice,
				TotalPrice:    domsale.LineTotal(l),
				PurchasePrice: l.PurchasePrice,
				Profit:        domsale.LineProfit(l),
			}
			if err := saleRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			itemResponses = append(itemResponses, dto.SaleItemResponse{
				ID:            item.ID,
				ProductID:     item.ProductID,
				ProductName:   products[l.ProductID].Name,
				Quantity:      item.Quantity,
				UnitPrice:     item.UnitPrice,
				TotalPrice:    item.TotalPrice,
				PurchasePrice: item.PurchasePrice,
				Profit:        item.Profit,
			})
		}

		// 7) Decrementar stock y registrar el movimiento por línea.
		// running mantiene la cantidad vigente cuando una venta repite producto.
		txID := uuid.New().String()
		running := map[int64]decimal.Decimal{}
		for id, p := range products {
			running[id] = p.Quantity
		}
		for _, l := range lines {
			previous := running[l.ProductID]
			newQty := previous.Sub(l.Quantity)
			running[l.ProductID] = newQty

			saleID := sale.ID
			mov := &entity.InventoryMovement{
				ProductID:        l.ProductID,
				ChangeType:       entity.ChangeTypeSale,
				QuantityChange:   l.Quantity.Neg(),
				PreviousQuantity: previous,
				NewQuantity:      newQty,
				ReferenceID:      &saleID,
				ReferenceType:    entity.ReferenceTypeSale,
				Reason:           fmt.Sprintf("بيع عبر الفاتورة %s", sale.InvoiceNumber),
				TransactionID:    txID,
				CreatedBy:        userID,
				CreatedAt:        now,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}
		for _, id := range ids {
			if err := productRepo.SetQuantity(ctx, id, running[id], now); err != nil {
				return err
			}
		}

		summary := domsale.Summarize(lines)
		out = toSaleResponse(sale, itemResponses, summary)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSale devuelve una venta persistida con sus líneas y resumen.
func (uc *CreateSaleUseCase) GetSale(ctx context.Context, id int64) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	itemResponses, lines := mapItems(items)
	return toSaleResponse(sale, itemResponses, domsale.Summarize(lines)), nil
}

// ListSales lista ventas del rango pedido con sus líneas y resumen, de la
// más reciente a la más antigua. Sin fechas, los últimos 30 días.
func (uc *CreateSaleUseCase) ListSales(ctx context.Context, in dto.SalesListRequest) ([]dto.SaleResponse, error) {
	start, end, err := resolvePeriod(in.StartDate, in.EndDate, time.Now())
	if err != nil {
		return nil, err
	}
	if in.PaymentMethod != "" && !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	filter := repository.SalesFilter{
		Start:         start,
		End:           end,
		PaymentMethod: in.PaymentMethod,
		MinAmount:     in.MinAmount,
		MaxAmount:     in.MaxAmount,
	}
	found, err := uc.saleRepo.ListWithItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out := make([]dto.SaleResponse, 0, len(found))
	for _, sw := range found {
		itemResponses, lines := mapItems(sw.Items)
		sale := sw.Sale
		out = append(out, *toSaleResponse(&sale, itemResponses, domsale.Summarize(lines)))
	}
	return out, nil
}

// mapItems convierte las líneas persistidas a respuesta y a líneas de dominio
// para recalcular el resumen.
func mapItems(items []repository.SaleItemWithProduct) ([]dto.SaleItemResponse, []domsale.Line) {
	itemResponses := make([]dto.SaleItemResponse, 0, len(items))
	lines := make([]domsale.Line, 0, len(items))
	for _, it := range items {
		itemResponses = append(itemResponses, dto.SaleItemResponse{
			ID:            it.ID,
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			TotalPrice:    it.TotalPrice,
			PurchasePrice: it.PurchasePrice,
			Profit:        it.Profit,
		})
		lines = append(lines, domsale.Line{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			PurchasePrice: it.PurchasePrice,
		})
	}
	return itemResponses, lines
}

// UpdatePaymentStatus aplica una transición de estado de pago. cancelled es terminal.
func (uc *CreateSaleUseCase) UpdatePaymentStatus(ctx context.Context, id int64, status string) error {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sale == nil {
		return domain.ErrNotFound
	}
	if !entity.ValidPaymentStatusTransition(sale.PaymentStatus, status) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusChange, sale.PaymentStatus, status)
	}
	return uc.saleRepo.UpdatePaymentStatus(ctx, id, status)
}

func toSaleResponse(sale *entity.Sale, items []dto.SaleItemResponse, summary domsale.Summary) *dto.SaleResponse {
	return &dto.SaleResponse{
		ID:             sale.ID,
		InvoiceNumber:  sale.InvoiceNumber,
		CustomerName:   sale.CustomerName,
		CustomerPhone:  sale.CustomerPhone,
		TotalAmount:    sale.TotalAmount,
		DiscountAmount: sale.DiscountAmount,
		TaxAmount:      sale.TaxAmount,
		FinalAmount:    sale.FinalAmount,
		PaymentMethod:  sale.PaymentMethod,
		PaymentStatus:  sale.PaymentStatus,
		SaleDate:       sale.SaleDate,
		Notes:          sale.Notes,
		Items:          items,
		Summary: dto.SaleSummary{
			TotalItems:    summary.TotalItems,
			TotalQuantity: summary.TotalQuantity,
			TotalProfit:   summary.TotalProfit,
		},
	}
}
