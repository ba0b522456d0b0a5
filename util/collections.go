package util

const (
	PatientCollection         = "PATIENT"
	AppointmentCollection     = "APPOINTMENT"
	HealthRecordCollection    = "HEALTH_RECORD"
	PaymentCollection         = "PAYMENT"
	InsurancePolicyCollection = "INSURANCE_POLICY"
	InsuranceClaimCollection  = "INSURANCE_CLAIM"
	StaffCollection           = "STAFF"
	DepartmentCollection      = "DEPARTMENT"
	HospitalCollection        = "HOSPITAL"
)

const (
	PatientKey  = "PATIENT:"
	SlotLockKey = "SLOT_LOCK:"
)

const DateLayout = "2006-01-02"
