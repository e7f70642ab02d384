package constants

// DatasetKind tags which of the two report sub-tables a record came from.
type DatasetKind string

const (
	ProductionVolumes DatasetKind = "ProductionVolumes"
	MaterialsUsed     DatasetKind = "MaterialsUsed"
)

// data_type column values in the exported datasets.
const (
	ProductionDataType = "Beer Production"
	MaterialsDataType  = "Materials Used"
)

// Table anchors for the statistical table embedded in the monthly report.
// The strict pair bounds the table at its header row; LooseStartAnchor starts
// one row earlier for callers that want the Production row included.
const (
	StartAnchor      = "MANUFACTURE OF BEER"
	EndAnchor        = "Total Used"
	LooseStartAnchor = "Production"
)
