package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

// subscribeAudit records session, checkout and settings events in sys_opr_log.
// Handlers run on the bus goroutine one at a time.
func (a *Application) subscribeAudit() {
	audit := func(action string) func(domain.AuditEvent) {
		return func(ev domain.AuditEvent) {
			a.RecordAudit(action, ev.Actor, ev.RemoteIP, ev.Detail)
		}
	}
	subs := map[string]interface{}{
		domain.TopicSessionLogin:    audit(domain.ActionLogin),
		domain.TopicSessionLogout:   audit(domain.ActionLogout),
		domain.TopicSessionRegister: audit(domain.ActionRegister),
		domain.TopicOrderCancelled:  audit(domain.ActionOrderCancelled),
		domain.TopicLandingUpdated:  audit(domain.ActionLandingUpdated),
		domain.TopicOrderSubmitted: func(ev domain.OrderSubmitted) {
			kind := "member"
			if ev.Guest {
				kind = "guest"
			}
			a.RecordAudit(domain.ActionOrderSubmitted, ev.Customer, ev.RemoteIP,
				fmt.Sprintf("order #%d (%s) total %.2f", ev.OrderID, kind, ev.Total))
		},
	}
	for topic, fn := range subs {
		if err := a.bus.SubscribeAsync(topic, fn, true); err != nil {
			zap.L().Error("subscribe audit handler", zap.String("topic", topic), zap.Error(err))
		}
	}
}

// RecordAudit stores one audit entry. Failures are logged, never returned.
func (a *Application) RecordAudit(action, actor, ip, desc string) {
	if actor == "" {
		actor = "guest"
	}
	entry := domain.SysOprLog{
		ID:        a.idNode.Generate().Int64(),
		OprName:   actor,
		OprIp:     ip,
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := a.gormDB.Create(&entry).Error; err != nil {
		zap.L().Error("write audit log", zap.String("action", action), zap.Error(err))
	}
}
