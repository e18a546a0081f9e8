package bus

// RPC subjects served by the identity authority.
const (
	SubjectRegister       = "auth.register"
	SubjectLogin          = "auth.login"
	SubjectRefresh        = "auth.refresh"
	SubjectLogout         = "auth.logout"
	SubjectVerify         = "auth.verify"
	SubjectIdentitiesList = "auth.identities.list"
	SubjectIdentityActive = "auth.identities.setActive"
)

// Subjects owned by the external order service. The gateway forwards opaque
// payloads to them; nothing in this repository serves them.
const (
	SubjectOrdersCreate       = "orders.create"
	SubjectOrdersFindAll      = "orders.findAll"
	SubjectOrdersFindCustomer = "orders.findByCustomer"
	SubjectOrdersFindNumber   = "orders.findByOrderNumber"
	SubjectOrdersUpdateStatus = "orders.updateStatus"
)
