package auth

// Permission codes, one per guarded operation. The format is resource:action.
const (
	PermMaterialCreate = "material:create"
	PermMaterialView   = "material:view"
	PermMaterialUpdate = "material:update"
	PermMaterialDelete = "material:delete"

	PermStockQueryView = "stock_query:view"

	PermStockInCreate = "stock_in:create"
	PermStockInView   = "stock_in:view"
	PermStockInUpdate = "stock_in:update"
	PermStockInDelete = "stock_in:delete"

	PermStockOutCreate = "stock_out:create"
	PermStockOutView   = "stock_out:view"
	PermStockOutUpdate = "stock_out:update"
	PermStockOutDelete = "stock_out:delete"

	PermWarningView  = "stock_warning:view"
	PermWarningCheck = "stock_warning:check"

	PermStocktakeCreate   = "stock_count:create"
	PermStocktakeView     = "stock_count:view"
	PermStocktakeSubmit   = "stock_count:submit"
	PermStocktakeComplete = "stock_count:complete"
	PermStocktakeCancel   = "stock_count:cancel"

	PermStatisticsView    = "statistics:view"
	PermMonthlyReportView = "monthly_report:view"

	PermUserManage = "user:manage"
)

// PermissionDef describes one entry of the permission catalog.
type PermissionDef struct {
	Code string
	Name string
}

// PermissionCatalog is the full set of known permissions, used by the seeder.
// The resource and action parts are derived from the code.
func PermissionCatalog() []PermissionDef {
	return []PermissionDef{
		{PermMaterialCreate, "Create materials"},
		{PermMaterialView, "View materials"},
		{PermMaterialUpdate, "Update materials"},
		{PermMaterialDelete, "Delete materials"},

		{PermStockQueryView, "Query stock balances"},

		{PermStockInCreate, "Create stock-in bills"},
		{PermStockInView, "View stock-in bills"},
		{PermStockInUpdate, "Update stock-in bills"},
		{PermStockInDelete, "Reverse stock-in bills"},

		{PermStockOutCreate, "Create stock-out bills"},
		{PermStockOutView, "View stock-out bills"},
		{PermStockOutUpdate, "Update stock-out bills"},
		{PermStockOutDelete, "Reverse stock-out bills"},

		{PermWarningView, "View stock warnings"},
		{PermWarningCheck, "Run warning checks"},

		{PermStocktakeCreate, "Create stocktake tasks"},
		{PermStocktakeView, "View stocktake tasks"},
		{PermStocktakeSubmit, "Submit stocktake counts"},
		{PermStocktakeComplete, "Complete stocktake tasks"},
		{PermStocktakeCancel, "Cancel stocktake tasks"},

		{PermStatisticsView, "View statistics"},
		{PermMonthlyReportView, "View monthly reports"},

		{PermUserManage, "Manage users and roles"},
	}
}
