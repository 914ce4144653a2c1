package domain

// View names a dashboard screen the navigation guard decides on.
type View string

const (
	ViewDashboard     View = "dashboard"
	ViewInvoices      View = "invoices"
	ViewCreateInvoice View = "create-invoice"
	ViewAllInvoices   View = "all-invoices"
	ViewUsers         View = "users"
)

// CanAccess reports whether a user holding role may open view.
// Unknown views are always denied.
func CanAccess(role Role, view View) bool {
	switch view {
	case ViewAllInvoices, ViewUsers:
		return role == RoleAdmin
	case ViewDashboard, ViewInvoices, ViewCreateInvoice:
		return true
	default:
		return false
	}
}
