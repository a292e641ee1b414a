package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/distributor/backend/internal/domain/catalog"
	csvimport "github.com/distributor/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newImportService(repo *MockProductRepository) *ProductImportService {
	return NewProductImportService(repo, zap.NewNop())
}

func importCSV(t *testing.T, service *ProductImportService, repo *MockProductRepository, csv string) (*ProductImportResult, error) {
	t.Helper()
	return service.ImportProducts(context.Background(), newTestTenantID(), newTestUserID(), "products.csv", int64(len(csv)), strings.NewReader(csv))
}

func newTestUserID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func TestProductImportService_ImportProducts_AllRowsValid(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	csv := "sku,name,selling_price,members_only,description\n" +
		"widget-01,Widget,6.50,false,Basic widget\n" +
		"widget-02,Deluxe Widget,12.00,true,\n"

	mockRepo.On("ExistsBySKU", mock.Anything, newTestTenantID(), mock.AnythingOfType("string")).Return(false, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := importCSV(t, service, mockRepo, csv)

	assert.NoError(t, err)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.ErrorRows)
	assert.Empty(t, result.Errors)
	mockRepo.AssertNumberOfCalls(t, "Save", 2)
}

func TestProductImportService_ImportProducts_PartialFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	// second row has a negative price, third is missing the name
	csv := "sku,name,selling_price\n" +
		"widget-01,Widget,6.50\n" +
		"widget-02,Bad Widget,-1.00\n" +
		"widget-03,,3.00\n"

	mockRepo.On("ExistsBySKU", mock.Anything, newTestTenantID(), "WIDGET-01").Return(false, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := importCSV(t, service, mockRepo, csv)

	assert.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.ErrorRows)
	assert.Len(t, result.Errors, 2)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestProductImportService_ImportProducts_DuplicateInFile(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	// same SKU twice, differing only by case
	csv := "sku,name,selling_price\n" +
		"widget-01,Widget,6.50\n" +
		"WIDGET-01,Widget Again,7.00\n"

	mockRepo.On("ExistsBySKU", mock.Anything, newTestTenantID(), "WIDGET-01").Return(false, nil).Once()
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	result, err := importCSV(t, service, mockRepo, csv)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.ErrorRows)
	assert.Equal(t, csvimport.ErrCodeImportDuplicateInFile, result.Errors[0].Code)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestProductImportService_ImportProducts_DuplicateInDatabase(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	csv := "sku,name,selling_price\n" +
		"widget-01,Widget,6.50\n"

	mockRepo.On("ExistsBySKU", mock.Anything, newTestTenantID(), "WIDGET-01").Return(true, nil)

	result, err := importCSV(t, service, mockRepo, csv)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.ErrorRows)
	assert.Equal(t, csvimport.ErrCodeImportDuplicateInDB, result.Errors[0].Code)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestProductImportService_ImportProducts_MissingColumns(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	csv := "sku,name\n" +
		"widget-01,Widget\n"

	result, err := importCSV(t, service, mockRepo, csv)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "selling_price")
	mockRepo.AssertNotCalled(t, "Save")
}

func TestProductImportService_ImportProducts_EmptyFile(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	result, err := importCSV(t, service, mockRepo, "sku,name,selling_price\n")

	assert.Error(t, err)
	assert.Nil(t, result)
	mockRepo.AssertNotCalled(t, "Save")
}

func TestProductImportService_ImportProducts_MembersOnlyFlag(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newImportService(mockRepo)

	csv := "sku,name,selling_price,members_only\n" +
		"widget-01,Widget,6.50,true\n"

	mockRepo.On("ExistsBySKU", mock.Anything, newTestTenantID(), "WIDGET-01").Return(false, nil)
	mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *catalog.Product) bool {
		return p.MembersOnly && p.SKU == "WIDGET-01"
	})).Return(nil)

	result, err := importCSV(t, service, mockRepo, csv)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	mockRepo.AssertExpectations(t)
}
