package models

type PatientFlowReport struct {
	From              string                    `json:"from"`
	To                string                    `json:"to"`
	TotalAppointments int                       `json:"totalAppointments"`
	UniquePatients    int                       `json:"uniquePatients"`
	ByStatus          map[AppointmentStatus]int `json:"byStatus"`
	ByDay             map[string]int            `json:"byDay"`
	ByDoctor          map[string]int            `json:"byDoctor"`
	BySlot            map[string]int            `json:"bySlot"`
}

type RevenueReport struct {
	From              string                `json:"from"`
	To                string                `json:"to"`
	TotalBilled       float64               `json:"totalBilled"`
	TotalCollected    float64               `json:"totalCollected"`
	InsuranceCoverage float64               `json:"insuranceCoverage"`
	PatientPortion    float64               `json:"patientPortion"`
	ByStatus          map[PaymentStatus]int `json:"byStatus"`
}

type DepartmentLoad struct {
	DepartmentID   string `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	Doctors        int    `json:"doctors"`
	Appointments   int    `json:"appointments"`
}

type DepartmentLoadReport struct {
	From        string           `json:"from"`
	To          string           `json:"to"`
	Departments []DepartmentLoad `json:"departments"`
	Unassigned  int              `json:"unassigned"`
}
