package util

const (
	INVALID_REQUEST_BODY = "invalid request body"
	INVALID_ID           = "invalid id"
	INVALID_DATE         = "date must be in YYYY-MM-DD format"
	INVALID_DATE_RANGE   = "from must not be after to"

	PATIENT_NOT_FOUND             = "patient not found"
	EMAIL_ALREADY_REGISTERED      = "email already registered"
	SEARCH_QUERY_TOO_SHORT        = "search query must be at least 2 characters"
	DATE_OF_BIRTH_IN_FUTURE       = "date of birth cannot be in the future"
	INVALID_PHONE                 = "phone must be 10 digits"
	HEALTH_RECORD_NOT_PROVISIONED = "health record could not be created, patient left provisional"

	APPOINTMENT_NOT_FOUND       = "appointment not found"
	SLOT_ALREADY_BOOKED         = "time slot already booked for this doctor"
	SLOT_NOT_IN_CATALOG         = "time slot is not offered"
	SLOT_BUSY                   = "another booking for this slot is in progress"
	DOCTOR_ID_AND_DATE_REQUIRED = "doctorId and date are required"
	DOCTOR_ID_REQUIRED          = "doctorId is required"
	APPOINTMENT_STATUS_CHANGED  = "appointment was modified concurrently"
	INVALID_APPOINTMENT_ACTION  = "action must be one of confirm, reschedule, cancel, complete"
	INVALID_TRANSITION          = "cannot %s an appointment that is %s"

	PAYMENT_NOT_FOUND                 = "payment not found"
	PAYMENT_NOT_PENDING               = "payment is not pending"
	PAYMENT_EXISTS_FOR_APPOINTMENT    = "payment already exists for this appointment"
	PAYMENT_FOR_CANCELLED_APPOINTMENT = "cannot bill a cancelled appointment"
	AMOUNT_MUST_BE_POSITIVE           = "amount must be greater than zero"
	PAYMENT_DECLINED                  = "payment declined"
	PAYMENT_STATUS_CHANGED            = "payment was processed concurrently"
	PAYMENT_METHOD_REQUIRED           = "paymentMethod is required"

	NO_ACTIVE_POLICY         = "no active insurance policy for patient"
	POLICY_NOT_FOUND         = "insurance policy not found"
	POLICY_NUMBER_EXISTS     = "policy number already exists"
	CLAIM_NOT_FOUND          = "insurance claim not found"
	CLAIM_EXISTS_FOR_PAYMENT = "claim already submitted for this payment"
	CLAIM_PATIENT_MISMATCH   = "payment and policy belong to different patients"
	COVERAGE_OUT_OF_RANGE    = "coveragePercentage must be greater than 0 and at most 100"
	MAX_COVERAGE_NEGATIVE    = "maxCoverage must not be negative"
	END_DATE_BEFORE_START    = "endDate must be after startDate"

	HEALTH_RECORD_NOT_FOUND = "health record not found"
	ENCOUNTER_NOT_FOUND     = "encounter not found"
	MEDICATION_NOT_FOUND    = "medication not found"
	INVALID_BLOOD_TYPE      = "invalid blood type"

	INVALID_REPORT_FORMAT = "format must be PDF or CSV"
	REPORT_DATA_REQUIRED  = "reportData is required"

	STAFF_NOT_FOUND         = "staff member not found"
	DEPARTMENT_NOT_FOUND    = "department not found"
	HOSPITAL_NOT_FOUND      = "hospital not found"
	INVALID_CREDENTIALS     = "invalid email or password"
	AUTHENTICATION_REQUIRED = "authentication required"
	ACCESS_DENIED           = "access denied"
	ROLE_NOT_FOUND          = "role not found"
	INTERNAL_SERVER_ERROR   = "internal server error"
)
