package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & Profile Tables
// ============================================================

// Profile represents the profiles table — the business-facing user record,
// keyed 1:1 to an identity by id. Name/email/phone/role duplicate identity
// metadata for query convenience; the role here is the authoritative one.
type Profile struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"size:200" json:"name"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Email     string         `gorm:"index;size:100;not null" json:"email"`
	Phone     string         `gorm:"size:30" json:"phone"`
	Role      string         `gorm:"size:20;not null;index" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Master Tables
// ============================================================

// Role catalog row — the authoritative set of assignable role names.
// A profile may only carry a role present here; provisioning validates by
// lookup and rejects anything else.
type Role struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:20;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Role) TableName() string {
	return "master_roles"
}

// Known role names. The catalog stays the source of truth; these constants
// exist for seeding and route gating.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleCustomer   = "customer"
)

// Customer represents master_customers. UserID is a weak reference to a
// profile (nullable correlation, no enforced relation); Email correlates
// when UserID is absent.
type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:200;not null" json:"name"`
	PICName   string         `gorm:"size:200" json:"pic_name"`
	Phone     string         `gorm:"size:30" json:"phone"`
	Address   string         `gorm:"type:text" json:"address"`
	Email     string         `gorm:"size:100;index" json:"email"`
	UserID    *string        `gorm:"size:36;index" json:"user_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Projects []Project `gorm:"foreignKey:CustomerID" json:"projects,omitempty"`
}

func (Customer) TableName() string {
	return "master_customers"
}

// Project represents master_projects. A project belongs to exactly one customer.
type Project struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CustomerID  uint           `gorm:"not null;index" json:"customer_id"`
	ProjectName string         `gorm:"size:200;not null" json:"project_name"`
	Location    string         `gorm:"size:200" json:"location"`
	Phone       string         `gorm:"size:30" json:"phone"`
	Address     string         `gorm:"type:text" json:"address"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

func (Project) TableName() string {
	return "master_projects"
}

// ACBrand represents master_ac_brands — a simple named lookup set.
type ACBrand struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ACBrand) TableName() string {
	return "master_ac_brands"
}

// ACType represents master_ac_types
type ACType struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ACType) TableName() string {
	return "master_ac_types"
}

// ACPk represents master_ac_pks (capacity labels, e.g. "1/2 PK", "1 PK")
type ACPk struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Label     string         `gorm:"size:50;uniqueIndex;not null" json:"label"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ACPk) TableName() string {
	return "master_ac_pks"
}

// ============================================================
// Requests (Jobs)
// ============================================================

// Request statuses. Intended usage moves forward only
// (pending → in_progress → completed) but no transition is enforced;
// any authorized writer may set any value.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// NormalizeStatus maps a stored status value onto the fixed label set.
// Anything unrecognized (including empty) reads as pending. The stored
// value is left untouched; this is read-side normalization only.
func NormalizeStatus(s string) string {
	switch s {
	case StatusInProgress:
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	default:
		return StatusPending
	}
}

// Request represents the requests table (a maintenance job).
// AC brand/type/pk are free text validated against the catalog only in the
// forms, not by foreign key. CreatedBy is a weak reference to the creating
// identity; TechnicianID a weak reference to the assigned technician profile.
type Request struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Status       string         `gorm:"size:20;index" json:"status"`
	CustomerID   uint           `gorm:"not null;index" json:"customer_id"`
	ProjectID    *uint          `gorm:"index" json:"project_id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	ACBrand      string         `gorm:"size:100" json:"ac_brand"`
	ACType       string         `gorm:"size:100" json:"ac_type"`
	ACPk         string         `gorm:"size:50" json:"ac_pk"`
	SerialNumber string         `gorm:"size:100" json:"serial_number"`
	TechnicianID *string        `gorm:"size:36;index" json:"technician_id"`
	CreatedBy    string         `gorm:"size:36;index" json:"created_by"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Customer *Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Project  *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Photos   []RequestPhoto `gorm:"foreignKey:RequestID" json:"photos,omitempty"`
}

func (Request) TableName() string {
	return "requests"
}

// RequestResponse DTO with the normalized status
type RequestResponse struct {
	ID           uint           `json:"id"`
	Status       string         `json:"status"`
	CustomerID   uint           `json:"customer_id"`
	CustomerName string         `json:"customer_name,omitempty"`
	ProjectID    *uint          `json:"project_id"`
	ProjectName  string         `json:"project_name,omitempty"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	ACBrand      string         `json:"ac_brand"`
	ACType       string         `json:"ac_type"`
	ACPk         string         `json:"ac_pk"`
	SerialNumber string         `json:"serial_number"`
	TechnicianID *string        `json:"technician_id"`
	CreatedBy    string         `json:"created_by"`
	Photos       []RequestPhoto `json:"photos,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (r *Request) ToResponse() *RequestResponse {
	resp := &RequestResponse{
		ID:           r.ID,
		Status:       NormalizeStatus(r.Status),
		CustomerID:   r.CustomerID,
		ProjectID:    r.ProjectID,
		Title:        r.Title,
		Description:  r.Description,
		ACBrand:      r.ACBrand,
		ACType:       r.ACType,
		ACPk:         r.ACPk,
		SerialNumber: r.SerialNumber,
		TechnicianID: r.TechnicianID,
		CreatedBy:    r.CreatedBy,
		Photos:       r.Photos,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	if r.Customer != nil {
		resp.CustomerName = r.Customer.Name
	}
	if r.Project != nil {
		resp.ProjectName = r.Project.ProjectName
	}
	return resp
}

// RequestPhoto represents request_photos — weak references into the
// job-photos store, one row per captured image.
type RequestPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID uint      `gorm:"not null;index" json:"request_id"`
	Category  string    `gorm:"size:20;not null" json:"category"`
	URL       string    `gorm:"size:500;not null" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RequestPhoto) TableName() string {
	return "request_photos"
}

// AutoMigrate creates/updates all application tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&RefreshToken{},
		&Role{},
		&Customer{},
		&Project{},
		&ACBrand{},
		&ACType{},
		&ACPk{},
		&Request{},
		&RequestPhoto{},
	)
}
