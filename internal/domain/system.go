package domain

import (
	"time"
)

// SettingsLanding is the sys_config category of the landing page keys.
const SettingsLanding = "landing"

// SysConfig is one key of a settings category owned by this service.
// Catalog, orders and users live upstream; only storefront settings are kept here.
type SysConfig struct {
	ID        int64     `json:"id,string"`
	Sort      int       `json:"sort"`
	Type      string    `gorm:"index;size:64" json:"type"`
	Name      string    `gorm:"index;size:128" json:"name"`
	Value     string    `gorm:"size:2048" json:"value"`
	Remark    string    `json:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysConfig) TableName() string {
	return "sys_config"
}

// Audit actions recorded in sys_opr_log.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionRegister       = "register"
	ActionOrderSubmitted = "order_submitted"
	ActionOrderCancelled = "order_cancelled"
	ActionLandingUpdated = "landing_updated"
)

// SysOprLog is an audit entry. OprName is the acting email, or "guest".
type SysOprLog struct {
	ID        int64     `json:"id,string"`
	OprName   string    `gorm:"index;size:255" json:"opr_name"`
	OprIp     string    `gorm:"size:64" json:"opr_ip"`
	OptAction string    `gorm:"index;size:64" json:"opt_action"`
	OptDesc   string    `gorm:"size:1024" json:"opt_desc"`
	OptTime   time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (SysOprLog) TableName() string {
	return "sys_opr_log"
}
