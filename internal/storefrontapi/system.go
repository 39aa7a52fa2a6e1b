package storefrontapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/sergiomvp10/tutti-services/internal/domain"
	"github.com/sergiomvp10/tutti-services/internal/webserver"
)

// registerSystemRoutes registers the admin views of service-owned data:
// the audit log and the scheduled jobs.
func registerSystemRoutes() {
	webserver.ApiGET("/system/audit", listAuditLog, webserver.RequireAdmin)
	webserver.ApiGET("/system/jobs", listJobs, webserver.RequireAdmin)
	webserver.ApiPOST("/system/jobs/:name/run", runJob, webserver.RequireAdmin)
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetAppContext(c).DB()
}

// parsePagination reads page and perPage, defaulting to 1 and 20.
func parsePagination(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	perPage, _ = strconv.Atoi(c.QueryParam("perPage"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 500 {
		perPage = 20
	}
	return page, perPage
}

func paged(c echo.Context, data interface{}, total int64, page, perPage int) error {
	return ok(c, map[string]interface{}{
		"items":   data,
		"total":   total,
		"page":    page,
		"perPage": perPage,
	})
}

// listAuditLog filters by action, operator and time range (since/until in
// any format dateparse understands).
func listAuditLog(c echo.Context) error {
	page, perPage := parsePagination(c)

	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	allowed := map[string]string{
		"opt_time":   "opt_time",
		"opr_name":   "opr_name",
		"opt_action": "opt_action",
	}
	sortCol, found := allowed[c.QueryParam("sort")]
	if !found {
		sortCol = "opt_time"
	}

	db := GetDB(c)
	query := db.Model(&domain.SysOprLog{})
	if action := strings.TrimSpace(c.QueryParam("action")); action != "" {
		query = query.Where("opt_action = ?", action)
	}
	if name := strings.TrimSpace(c.QueryParam("operator")); name != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			query = query.Where("opr_name ILIKE ?", "%"+name+"%")
		} else {
			query = query.Where("LOWER(opr_name) LIKE ?", "%"+strings.ToLower(name)+"%")
		}
	}
	for param, cond := range map[string]string{"since": "opt_time >= ?", "until": "opt_time <= ?"} {
		raw := strings.TrimSpace(c.QueryParam(param))
		if raw == "" {
			continue
		}
		t, err := dateparse.ParseIn(raw, time.Local)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Fecha no valida", param)
		}
		query = query.Where(cond, t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Error al consultar la auditoria", err.Error())
	}
	var logs []domain.SysOprLog
	err := query.Order(sortCol + " " + order).Limit(perPage).Offset((page - 1) * perPage).Find(&logs).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Error al consultar la auditoria", err.Error())
	}
	return paged(c, logs, total, page, perPage)
}

func listJobs(c echo.Context) error {
	return ok(c, webserver.GetAppContext(c).Jobs())
}

func runJob(c echo.Context) error {
	if err := webserver.GetAppContext(c).RunJobNow(c.Param("name")); err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Tarea no encontrada", err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
