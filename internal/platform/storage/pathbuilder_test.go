package storage

import "testing"

func TestBuildSiteLogoPath(t *testing.T) {
	path, err := BuildObjectPath(PurposeSiteLogo, PathParams{
		FileName:   "logo.svg",
		UnixMillis: 1735725600000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "site/logo/1735725600000_logo.svg"
	if path != expected {
		t.Fatalf("expected %s, got %s", expected, path)
	}
}

func TestBuildProductImagePath(t *testing.T) {
	path, err := BuildObjectPath(PurposeProductImage, PathParams{
		ProductSlug: "wedding-card",
		FileName:    "cover.png",
		UnixMillis:  1735725600000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "products/wedding-card-1735725600000"
	if path != expected {
		t.Fatalf("expected %s, got %s", expected, path)
	}
}

func TestBuildOrderUploadPath(t *testing.T) {
	path, err := BuildObjectPath(PurposeOrderUpload, PathParams{
		OrderID:   "SIRQ-2025-ABC12",
		FieldName: "photo",
		FileName:  "bride.jpg",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := "orders/SIRQ-2025-ABC12/photo_bride.jpg"
	if path != expected {
		t.Fatalf("expected %s, got %s", expected, path)
	}
}

func TestBuildObjectPathRejectsInvalidSegment(t *testing.T) {
	_, err := BuildObjectPath(PurposeOrderUpload, PathParams{
		OrderID:   "../bad",
		FieldName: "photo",
		FileName:  "file.png",
	})
	if err == nil {
		t.Fatal("expected error for traversal sequence")
	}
}

func TestBuildObjectPathRejectsMissingTimestamp(t *testing.T) {
	_, err := BuildObjectPath(PurposeSiteLogo, PathParams{FileName: "logo.svg"})
	if err == nil {
		t.Fatal("expected error for missing timestamp")
	}
}

func TestBuildObjectPathRejectsFileNameWithSlash(t *testing.T) {
	_, err := BuildObjectPath(PurposeSiteLogo, PathParams{
		FileName:   "a/b.svg",
		UnixMillis: 1,
	})
	if err == nil {
		t.Fatal("expected error for path separator in file name")
	}
}

func TestBuildObjectPathUnknownPurpose(t *testing.T) {
	_, err := BuildObjectPath(AssetPurpose("bogus"), PathParams{})
	if err == nil {
		t.Fatal("expected error for unknown purpose")
	}
}

func TestRegisterPathBuilderOverride(t *testing.T) {
	custom := AssetPurpose("custom")
	RegisterPathBuilder(custom, func(PathParams) (string, error) {
		return "custom/object", nil
	})
	t.Cleanup(func() { RegisterPathBuilder(custom, nil) })

	path, err := BuildObjectPath(custom, PathParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "custom/object" {
		t.Fatalf("unexpected path %s", path)
	}
}
