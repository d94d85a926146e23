package domain

// Business validation constants
const (
	MaxSessionsPerRecord        = 50
	MaxClientNameLength         = 200
	MaxNotesLength              = 2000
	MaxVenueLength              = 100
	MaxPaxCount                 = 5000
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Record number prefixes
const (
	EnquiryNumberPrefix = "ENQ"
	BookingNumberPrefix = "BKG"
)

// Role is the caller's role as supplied by the auth layer
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
	RoleViewer  Role = "viewer"
)

// WriterRoles may create and edit enquiries and bookings
var WriterRoles = []Role{RoleAdmin, RoleManager, RoleSales}

// SupervisorRoles may change enquiry status and cancel bookings
var SupervisorRoles = []Role{RoleAdmin, RoleManager}
