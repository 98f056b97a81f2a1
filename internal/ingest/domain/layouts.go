package domain

import billingdomain "github.com/andeslabs/facturador/internal/billing/domain"

// Declaration export layout. The back office emits a single sheet whose
// first ten rows are titles, followed by one legacy header row, followed by
// data. Several logical values span two merged columns (A+B, E+F, I+J).
const (
	DeclarationSheet     = "elementosConectadosDeclaracion"
	DeclarationTitleRows = 10
)

// Declaration target field names.
const (
	FieldSerial             = "serial"
	FieldBrand              = "brand"
	FieldNetworkUnitCode    = "nuc"
	FieldBetCode            = "bet_code"
	FieldLocationName       = "location_name"
	FieldMunicipality       = "municipality"
	FieldDepartment         = "department"
	FieldNetSalesValue      = "net_sales_value"
	FieldRateTwelvePercent  = "rate_twelve_percent"
	FieldFixedRate          = "fixed_rate"
	FieldExploitationRights = "exploitation_rights"
	FieldRateType           = "rate_type"
	FieldLocationCode       = "location_code"
)

// DeclarationFieldMap maps the declaration sheet's columns onto the billing
// record fields. Merged pairs list both columns; after unmerging they hold
// the same value and collapse to one.
func DeclarationFieldMap() FieldMap {
	return FieldMap{
		{Target: FieldSerial, Columns: []int{0, 1}, Default: billingdomain.Placeholder},
		{Target: FieldBrand, Columns: []int{2}, Default: billingdomain.Placeholder},
		{Target: FieldNetworkUnitCode, Columns: []int{3}, Default: billingdomain.Placeholder},
		{Target: FieldBetCode, Columns: []int{4, 5}, Default: billingdomain.Placeholder},
		{Target: FieldLocationName, Columns: []int{6}, Default: billingdomain.Placeholder},
		{Target: FieldMunicipality, Columns: []int{7}, Default: billingdomain.Placeholder},
		{Target: FieldDepartment, Columns: []int{8, 9}, Default: billingdomain.Placeholder},
		{Target: FieldNetSalesValue, Columns: []int{10}, Default: billingdomain.Placeholder},
		{Target: FieldRateTwelvePercent, Columns: []int{11}, Default: billingdomain.Placeholder},
		{Target: FieldFixedRate, Columns: []int{12}, Default: billingdomain.Placeholder},
		{Target: FieldExploitationRights, Columns: []int{13}, Default: billingdomain.Placeholder},
		{Target: FieldRateType, Columns: []int{14}, Default: billingdomain.Placeholder},
		{Target: FieldLocationCode, Columns: []int{15}, Default: billingdomain.Placeholder},
	}
}

// Inventory export layout: first sheet, header row on row 1, columns
// addressed by display name.
const (
	InventoryColLocationCode = "Código Local"
	InventoryColLocationName = "Nombre Establecimiento"
	InventoryColBetType      = "Tipo Apuesta"
)

// Bingo supplement layout: first sheet, two title rows, header row on row
// 3, columns addressed by display name.
const (
	BingoTitleRows          = 2
	BingoColLocationCode    = "Cod establecimiento"
	BingoColLocationName    = "Establecimiento"
	BingoColExploitationVal = "Valor derechos de explotación"
)

// BingoAllowedExtensions is the extension allow-list for the optional
// supplement upload.
var BingoAllowedExtensions = []string{".xlsx", ".xls"}
