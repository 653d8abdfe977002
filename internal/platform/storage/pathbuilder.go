package storage

import (
	"fmt"
	"strings"
	"sync"
)

// AssetPurpose captures high-level intent for storage layout decisions.
type AssetPurpose string

const (
	PurposeSiteLogo     AssetPurpose = "site-logo"
	PurposeProductImage AssetPurpose = "product-image"
	PurposeOrderUpload  AssetPurpose = "order-upload"
)

// PathParams provide required identifiers to compose storage object keys.
type PathParams struct {
	OrderID     string
	ProductSlug string
	FieldName   string
	FileName    string
	UnixMillis  int64
}

// PathBuilder composes the object path for a given asset purpose.
type PathBuilder func(PathParams) (string, error)

var (
	pathBuilders = map[AssetPurpose]PathBuilder{
		PurposeSiteLogo:     buildSiteLogoPath,
		PurposeProductImage: buildProductImagePath,
		PurposeOrderUpload:  buildOrderUploadPath,
	}
	pathBuildersMu sync.RWMutex
)

// RegisterPathBuilder overrides or registers a builder for a specific purpose.
func RegisterPathBuilder(purpose AssetPurpose, builder PathBuilder) {
	pathBuildersMu.Lock()
	defer pathBuildersMu.Unlock()
	if builder == nil {
		delete(pathBuilders, purpose)
		return
	}
	pathBuilders[purpose] = builder
}

// BuildObjectPath resolves the storage object path for the given purpose.
func BuildObjectPath(purpose AssetPurpose, params PathParams) (string, error) {
	pathBuildersMu.RLock()
	builder, ok := pathBuilders[purpose]
	pathBuildersMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("storage: unsupported asset purpose %q", purpose)
	}
	return builder(params)
}

func buildSiteLogoPath(params PathParams) (string, error) {
	fileName, err := validateFileName(params.FileName)
	if err != nil {
		return "", err
	}
	if params.UnixMillis <= 0 {
		return "", fmt.Errorf("storage: unixMillis is required")
	}
	return fmt.Sprintf("site/logo/%d_%s", params.UnixMillis, fileName), nil
}

// Product images live directly under products/ as a single
// <name>-<timestamp> object; the upload's own file name is not part of the key.
func buildProductImagePath(params PathParams) (string, error) {
	slug, err := validateSegment("productSlug", params.ProductSlug)
	if err != nil {
		return "", err
	}
	if params.UnixMillis <= 0 {
		return "", fmt.Errorf("storage: unixMillis is required")
	}
	return fmt.Sprintf("products/%s-%d", slug, params.UnixMillis), nil
}

func buildOrderUploadPath(params PathParams) (string, error) {
	orderID, err := validateSegment("orderID", params.OrderID)
	if err != nil {
		return "", err
	}
	fieldName, err := validateSegment("fieldName", params.FieldName)
	if err != nil {
		return "", err
	}
	fileName, err := validateFileName(params.FileName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("orders/%s/%s_%s", orderID, fieldName, fileName), nil
}

func validateSegment(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("storage: %s is required", name)
	}
	if strings.ContainsAny(value, "/\\") {
		return "", fmt.Errorf("storage: %s contains invalid path characters", name)
	}
	if strings.Contains(value, "..") {
		return "", fmt.Errorf("storage: %s contains invalid traversal sequence", name)
	}
	return value, nil
}

func validateFileName(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("storage: fileName is required")
	}
	if strings.ContainsAny(value, "/\\") {
		return "", fmt.Errorf("storage: fileName contains invalid path characters")
	}
	if strings.Contains(value, "..") {
		return "", fmt.Errorf("storage: fileName contains invalid traversal sequence")
	}
	return value, nil
}
