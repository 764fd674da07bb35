package dataset

import "time"

// Kind distinguishes the storage/JSON type of a value column.
type Kind int

const (
	Numeric Kind = iota
	Text
)

// Column describes one non-key value column of a dataset.
type Column struct {
	Name        string // column name in the store and field name in responses
	UpstreamKey string // field name in the eSett JSON payload
	Kind        Kind
}

// Descriptor holds the static metadata that parameterizes the cache-through
// engine for one dataset: where it lives upstream, how it is sampled, and
// which columns it carries. All four datasets share the same flow; only the
// descriptor differs.
type Descriptor struct {
	Name     string
	Table    string
	Path     string // upstream endpoint path
	Interval time.Duration
	HasGroup bool // carries the optional MGA grouping dimension
	Columns  []Column
}

// LoadProfile is the 15-minute load profile dataset. It is the only dataset
// with the MGA grouping dimension: (time, mba, mga_code) form the identity.
var LoadProfile = Descriptor{
	Name:     "load_profile",
	Table:    "load_profile",
	Path:     "/EXP18/LoadProfile",
	Interval: 15 * time.Minute,
	HasGroup: true,
	Columns: []Column{
		{Name: "mga_name", UpstreamKey: "mgaName", Kind: Text},
		{Name: "quantity", UpstreamKey: "quantity", Kind: Numeric},
	},
}

// Production is hourly production volumes broken down by source.
var Production = Descriptor{
	Name:     "production",
	Table:    "production",
	Path:     "/EXP16/Volumes",
	Interval: time.Hour,
	Columns: []Column{
		{Name: "total", UpstreamKey: "total", Kind: Numeric},
		{Name: "hydro", UpstreamKey: "hydro", Kind: Numeric},
		{Name: "wind", UpstreamKey: "wind", Kind: Numeric},
		{Name: "wind_offshore", UpstreamKey: "windOffshore", Kind: Numeric},
		{Name: "solar", UpstreamKey: "solar", Kind: Numeric},
		{Name: "nuclear", UpstreamKey: "nuclear", Kind: Numeric},
		{Name: "thermal", UpstreamKey: "thermal", Kind: Numeric},
		{Name: "energy_storage", UpstreamKey: "energyStorage", Kind: Numeric},
		{Name: "other", UpstreamKey: "other", Kind: Numeric},
	},
}

// Consumption is hourly consumption broken down by measurement type.
var Consumption = Descriptor{
	Name:     "consumption",
	Table:    "consumption",
	Path:     "/EXP15/Consumption",
	Interval: time.Hour,
	Columns: []Column{
		{Name: "total", UpstreamKey: "total", Kind: Numeric},
		{Name: "metered", UpstreamKey: "metered", Kind: Numeric},
		{Name: "profiled", UpstreamKey: "profiled", Kind: Numeric},
		{Name: "flex", UpstreamKey: "flex", Kind: Numeric},
	},
}

// ImbalancePrice is hourly imbalance price components.
var ImbalancePrice = Descriptor{
	Name:     "imbalance_price",
	Table:    "imbalance_price",
	Path:     "/EXP14/Prices",
	Interval: time.Hour,
	Columns: []Column{
		{Name: "up_reg_price", UpstreamKey: "upRegPrice", Kind: Numeric},
		{Name: "down_reg_price", UpstreamKey: "downRegPrice", Kind: Numeric},
		{Name: "imbl_purchase_price", UpstreamKey: "imblPurchasePrice", Kind: Numeric},
		{Name: "imbl_sales_price", UpstreamKey: "imblSalesPrice", Kind: Numeric},
		{Name: "imbl_spot_difference_price", UpstreamKey: "imblSpotDifferencePrice", Kind: Numeric},
		{Name: "incentivising_component", UpstreamKey: "incentivisingComponent", Kind: Numeric},
		{Name: "main_dir_reg_power_per_mba", UpstreamKey: "mainDirRegPowerPerMBA", Kind: Numeric},
		{Name: "value_of_avoided_activation", UpstreamKey: "valueOfAvoidedActivation", Kind: Numeric},
		{Name: "up_reg_price_frr_a", UpstreamKey: "upRegPriceFrrA", Kind: Numeric},
		{Name: "down_reg_price_frr_a", UpstreamKey: "downRegPriceFrrA", Kind: Numeric},
	},
}

// All lists every dataset served by the proxy.
var All = []Descriptor{LoadProfile, Production, Consumption, ImbalancePrice}
