package dto

// ComparableSale is one usable transaction from the comparables table.
type ComparableSale struct {
	AreaM2 float64 `json:"area_m2"`
	Price  int64   `json:"price"`
}

// ComparableViewRow is one row of the browsable comparables table.
// Columns that are absent from the source stay empty.
type ComparableViewRow struct {
	ContractMonth string  `json:"contract_month,omitempty"`
	District      string  `json:"district,omitempty"`
	LotNumber     string  `json:"lot_number,omitempty"`
	BuildingName  string  `json:"building_name,omitempty"`
	AreaM2        float64 `json:"area_m2"`
	Price         int64   `json:"price"`
	UnitPrice     int64   `json:"unit_price"`
	Floor         *int    `json:"floor,omitempty"`
	BuiltYear     *int    `json:"built_year,omitempty"`
}

// ComparablesView is the browsable table plus the number of rows it was cut from.
type ComparablesView struct {
	Rows      []ComparableViewRow `json:"rows"`
	TotalRows int                 `json:"total_rows"`
}

// PriceEstimate is the low/mid/high resale estimate built from comparables.
type PriceEstimate struct {
	Low  *int64 `json:"low"`
	Mid  *int64 `json:"mid"`
	High *int64 `json:"high"`

	SampleSize      int     `json:"sample_size"`
	WindowM2        float64 `json:"window_m2,omitempty"`
	OutlierFiltered bool    `json:"outlier_filtered"`
	Note            string  `json:"note"`
}

// Available reports whether all three prices were computed.
func (e PriceEstimate) Available() bool {
	return e.Low != nil && e.Mid != nil && e.High != nil
}
