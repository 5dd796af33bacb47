package data

import (
	_ "embed"
)

// ProductCatalog is the sample affiliate catalog loaded by product seeding
//
//go:embed catalog/products.json
var ProductCatalog []byte
