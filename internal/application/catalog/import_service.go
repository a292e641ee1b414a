package catalog

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/distributor/backend/internal/domain/catalog"
	"github.com/distributor/backend/internal/domain/shared"
	csvimport "github.com/distributor/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// importMaxErrors caps how many row errors a single import reports
const importMaxErrors = 100

// productImportColumns are the headers a product CSV must carry
var productImportColumns = []string{"sku", "name", "selling_price"}

func productImportRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("sku").Required().String().MaxLength(64).Build(),
		csvimport.Field("name").Required().String().MaxLength(200).Build(),
		csvimport.Field("selling_price").Required().Decimal().MinValue(decimal.Zero).Build(),
		csvimport.Field("members_only").Bool().Build(),
		csvimport.Field("description").String().MaxLength(2000).Build(),
	}
}

// ProductImportResult summarizes a bulk import: rows that passed
// validation became products, the rest are reported per row
type ProductImportResult struct {
	SessionID uuid.UUID            `json:"session_id"`
	TotalRows int                  `json:"total_rows"`
	Imported  int                  `json:"imported"`
	ErrorRows int                  `json:"error_rows"`
	Errors    []csvimport.RowError `json:"errors,omitempty"`
}

// ProductImportService bulk-creates catalog products from CSV files.
// Valid rows are imported even when other rows fail; the result reports
// both sides so the caller can fix and resubmit only the failures.
type ProductImportService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductImportService creates a new product import service
func NewProductImportService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductImportService {
	return &ProductImportService{
		productRepo: productRepo,
		logger:      logger.Named("product_import"),
	}
}

// ImportProducts parses and imports a product CSV for the tenant
func (s *ProductImportService) ImportProducts(ctx context.Context, tenantID, userID uuid.UUID, fileName string, fileSize int64, r io.Reader) (*ProductImportResult, error) {
	session := csvimport.NewImportSession(tenantID, userID, csvimport.EntityProducts, fileName, fileSize)

	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		session.UpdateState(csvimport.StateFailed)
		return nil, shared.NewDomainError("INVALID_INPUT", "Cannot read CSV file: "+err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		session.UpdateState(csvimport.StateFailed)
		return nil, shared.NewDomainError("INVALID_INPUT", "Cannot read CSV header: "+err.Error())
	}
	if missing := parser.ValidateHeaders(productImportColumns); len(missing) > 0 {
		session.UpdateState(csvimport.StateFailed)
		msg := "Missing required columns:"
		for _, col := range missing {
			msg += " " + col
		}
		return nil, shared.NewDomainError("INVALID_INPUT", msg)
	}

	session.UpdateState(csvimport.StateImporting)
	validator := csvimport.NewFieldValidator(productImportRules(), importMaxErrors)
	seenSKUs := make(map[string]struct{})

	result := &ProductImportResult{SessionID: session.ID}
	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			session.UpdateState(csvimport.StateFailed)
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		if row.IsEmpty() {
			continue
		}
		result.TotalRows++

		if !validator.ValidateRow(row) {
			result.ErrorRows++
			continue
		}

		// SKUs are stored uppercase, dedup on the normalized form
		sku := strings.ToUpper(row.Get("sku"))
		if _, dup := seenSKUs[sku]; dup {
			validator.Errors().AddDuplicateError(row.LineNumber, "sku", sku, false)
			result.ErrorRows++
			continue
		}
		exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, sku)
		if err != nil {
			session.UpdateState(csvimport.StateFailed)
			return nil, err
		}
		if exists {
			validator.Errors().AddDuplicateError(row.LineNumber, "sku", sku, true)
			result.ErrorRows++
			continue
		}

		price, err := decimal.NewFromString(row.Get("selling_price"))
		if err != nil {
			// type validation passed, so this is unreachable in practice
			validator.Errors().AddTypeError(row.LineNumber, "selling_price", "decimal", row.Get("selling_price"))
			result.ErrorRows++
			continue
		}

		product, err := catalog.NewProduct(tenantID, sku, row.Get("name"), price)
		if err != nil {
			result.ErrorRows++
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				validator.Errors().AddValidationError(row.LineNumber, "", domainErr.Code, domainErr.Message)
			} else {
				validator.Errors().AddValidationError(row.LineNumber, "", csvimport.ErrCodeImportValidation, err.Error())
			}
			continue
		}
		product.Description = row.Get("description")
		product.MembersOnly = row.GetOrDefault("members_only", "false") == "true"

		if err := s.productRepo.Save(ctx, product); err != nil {
			session.UpdateState(csvimport.StateFailed)
			return nil, err
		}
		seenSKUs[sku] = struct{}{}
		result.Imported++
	}

	if result.TotalRows == 0 {
		session.UpdateState(csvimport.StateFailed)
		return nil, shared.NewDomainError("INVALID_INPUT", "CSV file contains no data rows")
	}

	result.Errors = validator.Errors().Errors()
	session.UpdateState(csvimport.StateCompleted)

	s.logger.Info("product import finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("file", fileName),
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("error_rows", result.ErrorRows))

	return result, nil
}
