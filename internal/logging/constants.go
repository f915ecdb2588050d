package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldParser     = "parser"
	FieldStage      = "stage"
	FieldRowsIn     = "rows_in"
	FieldRowsOut    = "rows_out"
	FieldRow        = "row"
	FieldCategory   = "category"
	FieldMerchant   = "merchant"
	FieldReason     = "reason"
	FieldCount      = "count"
	FieldRunID      = "run_id"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
