package domain

// Tables are the service-owned tables migrated at startup.
var Tables = []interface{}{
	&SysConfig{},
	&SysOprLog{},
}
