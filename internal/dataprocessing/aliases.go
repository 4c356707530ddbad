package dataprocessing

import "sellerpulse/pkg/contracts/domain"

// Semantic field names bound by the alias tables.
const (
	FieldOrderID       = "orderId"
	FieldSKU           = "sku"
	FieldQuantity      = "quantity"
	FieldProductName   = "productName"
	FieldVariant       = "variant"
	FieldCreatedAt     = "createdAt"
	FieldShippedAt     = "shippedAt"
	FieldCompletedAt   = "completedAt"
	FieldCity          = "city"
	FieldPaymentMethod = "paymentMethod"
	FieldStatus        = "status"
	FieldPayout        = "payout"
	FieldRevenue       = "revenue"
	FieldReleasedAt    = "releasedAt"
	FieldCost          = "cost"
	FieldProductID     = "productId"
	FieldTraffic       = "traffic"
	FieldConversion    = "conversionRate"
	FieldSales         = "sales"
)

// FieldAlias lists the normalized header substrings accepted for one field.
// A header containing any of Excludes never binds to the field.
type FieldAlias struct {
	Field    string
	Aliases  []string
	Excludes []string
	Required bool
}

// DocumentSchema describes how to find and bind one export layout. The
// header row is the first row containing any of the Anchors.
type DocumentSchema struct {
	Kind    domain.DocumentKind
	Anchors []string
	Fields  []FieldAlias
}

// orderAnchors covers "No. Pesanan" (Shopee), "Nomor Pesanan" (Tokopedia),
// "Order ID" (TikTok Shop) and "Order Number"/"Order No." (Lazada).
var orderAnchors = []string{"nopesanan", "nomorpesanan", "orderid", "ordernumber", "orderno"}

// OrderSchema binds order exports. Plain "sku" is the last alias tried; the
// parent and platform SKU columns that precede the line SKU in Shopee
// ("SKU Induk"), TikTok ("SKU ID") and Lazada ("Lazada SKU") never bind.
var OrderSchema = DocumentSchema{
	Kind:    domain.DocumentOrders,
	Anchors: orderAnchors,
	Fields: []FieldAlias{
		{Field: FieldOrderID, Aliases: orderAnchors, Required: true},
		{Field: FieldSKU, Aliases: []string{"nomorreferensisku", "referensisku", "sellersku", "skupenjual", "skuvariasi", "nomorsku", "sku"}, Excludes: []string{"induk", "parent", "skuid", "lazadasku"}, Required: true},
		{Field: FieldQuantity, Aliases: []string{"jumlah", "quantity", "qty", "kuantitas"}, Excludes: []string{"harga", "diskon", "pembayaran", "returned", "dikembalikan"}},
		{Field: FieldProductName, Aliases: []string{"namaproduk", "productname", "itemname", "produk"}, Excludes: []string{"sku", "harga", "jumlah", "berat"}},
		{Field: FieldVariant, Aliases: []string{"namavariasi", "variation", "variasi", "variant"}},
		{Field: FieldCreatedAt, Aliases: []string{"waktupesanandibuat", "createdtime", "createtime", "ordercreation", "tanggalpesanan", "createdat"}},
		{Field: FieldShippedAt, Aliases: []string{"waktupengirimandiatur", "pesanandikirim", "shippedtime", "shiptime", "shippedat"}},
		{Field: FieldCompletedAt, Aliases: []string{"waktupesananselesai", "deliveredtime", "completedtime", "completedat"}},
		{Field: FieldCity, Aliases: []string{"kotakabupaten", "regencyandcity", "kota", "city"}},
		{Field: FieldPaymentMethod, Aliases: []string{"metodepembayaran", "paymentmethod", "paymentmethodname"}},
		{Field: FieldStatus, Aliases: []string{"statuspesanan", "orderstatus", "status"}},
	},
}

// payoutAnchors adds TikTok's settlement header "Order/adjustment ID".
var payoutAnchors = append([]string{"orderadjustmentid"}, orderAnchors...)

// PayoutSchema binds income/settlement reports.
var PayoutSchema = DocumentSchema{
	Kind:    domain.DocumentPayouts,
	Anchors: payoutAnchors,
	Fields: []FieldAlias{
		{Field: FieldOrderID, Aliases: payoutAnchors, Required: true},
		{Field: FieldPayout, Aliases: []string{"totalpenghasilan", "totalsettlementamount", "settlementamount", "penghasilan", "payout", "danadilepaskan"}, Required: true},
		{Field: FieldRevenue, Aliases: []string{"hargaasliproduk", "totalrevenue", "totalpendapatan", "subtotalproduk", "grossrevenue"}},
		{Field: FieldReleasedAt, Aliases: []string{"tanggaldanadilepaskan", "settlementtime", "ordersettledtime", "releasedate"}},
	},
}

// CostCatalogSchema binds the seller's own HPP sheet.
var CostCatalogSchema = DocumentSchema{
	Kind:    domain.DocumentCostCatalog,
	Anchors: []string{"sku"},
	Fields: []FieldAlias{
		{Field: FieldSKU, Aliases: []string{"sku"}, Required: true},
		{Field: FieldCost, Aliases: []string{"hpp", "hargamodal", "hargapokok", "modal", "unitcost", "cost"}, Required: true},
	},
}

// ProductPerformanceSchema binds Shopee/TikTok product performance exports.
var ProductPerformanceSchema = DocumentSchema{
	Kind:    domain.DocumentProductPerformance,
	Anchors: []string{"halamanprodukdilihat", "productpageviews", "pageviews"},
	Fields: []FieldAlias{
		{Field: FieldProductName, Aliases: []string{"produk", "productname", "namaproduk", "product"}, Excludes: []string{"kode", "id", "dilihat", "pengunjung", "views", "visitor"}, Required: true},
		{Field: FieldProductID, Aliases: []string{"kodeproduk", "productid", "itemid"}},
		{Field: FieldTraffic, Aliases: []string{"halamanprodukdilihat", "productpageviews", "pageviews"}, Required: true},
		{Field: FieldConversion, Aliases: []string{"tingkatkonversi", "conversionrate", "konversi"}, Required: true},
		{Field: FieldSales, Aliases: []string{"penjualanidr", "penjualan", "gmv", "sales"}},
	},
}
