// Package rbac gates every API route behind capability tokens. Tokens are
// typed constants so a misspelled capability fails at compile time instead
// of silently never matching.
package rbac

// Capability identifies a permission checked before an action is allowed.
type Capability string

const (
	CapCategoryView   Capability = "Category-View"
	CapCategoryCreate Capability = "Category-Create"
	CapCategoryEdit   Capability = "Category-Edit"
	CapCategoryDelete Capability = "Category-Delete"

	CapProductView   Capability = "Product-View"
	CapProductCreate Capability = "Product-Create"
	CapProductEdit   Capability = "Product-Edit"
	CapProductDelete Capability = "Product-Delete"

	CapBranchView   Capability = "Branch-View"
	CapBranchCreate Capability = "Branch-Create"
	CapBranchEdit   Capability = "Branch-Edit"
	CapBranchDelete Capability = "Branch-Delete"

	CapSupplierView   Capability = "Supplier-View"
	CapSupplierCreate Capability = "Supplier-Create"
	CapSupplierEdit   Capability = "Supplier-Edit"
	CapSupplierDelete Capability = "Supplier-Delete"

	CapCustomerView   Capability = "Customer-View"
	CapCustomerCreate Capability = "Customer-Create"
	CapCustomerEdit   Capability = "Customer-Edit"
	CapCustomerDelete Capability = "Customer-Delete"

	CapPurchaseView   Capability = "Purchase-View"
	CapPurchaseCreate Capability = "Purchase-Create"
	CapPurchaseEdit   Capability = "Purchase-Edit"
	CapPurchaseDelete Capability = "Purchase-Delete"

	CapQuotationView   Capability = "Quotation-View"
	CapQuotationCreate Capability = "Quotation-Create"
	CapQuotationEdit   Capability = "Quotation-Edit"
	CapQuotationDelete Capability = "Quotation-Delete"

	CapInvoiceView   Capability = "Invoice-View"
	CapInvoiceCreate Capability = "Invoice-Create"
	CapInvoiceEdit   Capability = "Invoice-Edit"
	CapInvoiceDelete Capability = "Invoice-Delete"

	CapStockView     Capability = "Stock-View"
	CapStockAdjust   Capability = "Stock-Adjust"
	CapStockTransfer Capability = "Stock-Transfer"
	CapStockReturn   Capability = "Stock-Return"

	CapUserView   Capability = "User-View"
	CapUserCreate Capability = "User-Create"
	CapUserEdit   Capability = "User-Edit"
	CapUserDelete Capability = "User-Delete"

	CapRoleView   Capability = "Role-View"
	CapRoleCreate Capability = "Role-Create"
	CapRoleEdit   Capability = "Role-Edit"
	CapRoleDelete Capability = "Role-Delete"

	CapReportView   Capability = "Report-View"
	CapReportExport Capability = "Report-Export"
)

// All enumerates every known capability, in the order role-editing screens
// present them.
func All() []Capability {
	return []Capability{
		CapCategoryView, CapCategoryCreate, CapCategoryEdit, CapCategoryDelete,
		CapProductView, CapProductCreate, CapProductEdit, CapProductDelete,
		CapBranchView, CapBranchCreate, CapBranchEdit, CapBranchDelete,
		CapSupplierView, CapSupplierCreate, CapSupplierEdit, CapSupplierDelete,
		CapCustomerView, CapCustomerCreate, CapCustomerEdit, CapCustomerDelete,
		CapPurchaseView, CapPurchaseCreate, CapPurchaseEdit, CapPurchaseDelete,
		CapQuotationView, CapQuotationCreate, CapQuotationEdit, CapQuotationDelete,
		CapInvoiceView, CapInvoiceCreate, CapInvoiceEdit, CapInvoiceDelete,
		CapStockView, CapStockAdjust, CapStockTransfer, CapStockReturn,
		CapUserView, CapUserCreate, CapUserEdit, CapUserDelete,
		CapRoleView, CapRoleCreate, CapRoleEdit, CapRoleDelete,
		CapReportView, CapReportExport,
	}
}

// Set is a capability lookup resolved once per request.
type Set map[Capability]struct{}

// NewSet builds a Set from tokens.
func NewSet(caps []Capability) Set {
	set := make(Set, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the capability is granted.
func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}
