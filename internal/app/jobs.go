package app

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

// AuditRetention is how long audit entries are kept.
const AuditRetention = 365 * 24 * time.Hour

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))
	a.jobs = make(map[string]job)

	a.addJob(JobSweepSessions, "@every 5m", a.SchedSweepSessions)
	a.addJob(JobClearExpireData, "@daily", a.SchedClearExpireData)
	a.addJob(JobProcessMonitor, "@every 1m", a.SchedProcessMonitorTask)

	a.sched.Start()
}

// Job names.
const (
	JobSweepSessions   = "sweep_sessions"
	JobClearExpireData = "clear_expire_data"
	JobProcessMonitor  = "process_monitor"
)

type job struct {
	id   cron.EntryID
	spec string
	run  func()
}

// JobInfo describes a scheduled job.
type JobInfo struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

func (a *Application) addJob(name, spec string, fn func()) {
	id, err := a.sched.AddFunc(spec, fn)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
		return
	}
	a.jobs[name] = job{id: id, spec: spec, run: fn}
}

// Jobs lists the scheduled jobs ordered by name.
func (a *Application) Jobs() []JobInfo {
	out := make([]JobInfo, 0, len(a.jobs))
	for name, j := range a.jobs {
		e := a.sched.Entry(j.id)
		out = append(out, JobInfo{Name: name, Spec: j.spec, Next: e.Next, Prev: e.Prev})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Name < out[k].Name })
	return out
}

// RunJobNow runs a scheduled job immediately on the calling goroutine.
func (a *Application) RunJobNow(name string) error {
	j, ok := a.jobs[name]
	if !ok {
		return errors.Errorf("unknown job %q", name)
	}
	j.run()
	return nil
}

// SchedSweepSessions drops idle storefront sessions and their carts.
func (a *Application) SchedSweepSessions() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	if n := a.sessions.Sweep(); n > 0 {
		zap.L().Info("expired storefront sessions", zap.Int("count", n), zap.Int("active", a.sessions.Len()))
	}
}

// SchedClearExpireData deletes audit entries older than AuditRetention.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	res := a.gormDB.
		Where("opt_time < ? ", time.Now().Add(-AuditRetention)).
		Delete(&domain.SysOprLog{})
	if res.Error != nil {
		zap.L().Error("clear audit log", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		zap.L().Info("cleared audit log", zap.Int64("rows", res.RowsAffected))
	}
}
