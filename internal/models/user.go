package models

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// User represents a profile in the system. Credentials are not stored here;
// authentication is handled by the hosted identity provider and this service
// only validates the tokens it issues.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FirstName    string `gorm:"size:100" json:"firstName"`
	LastName     string `gorm:"size:100" json:"lastName"`
	Role         Role   `gorm:"size:20;default:'patient'" json:"role"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`

	// Relations (not always preloaded)
	DoctorAppointments  []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	Notifications       []Notification `gorm:"foreignKey:UserID" json:"-"`
}
