package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edirooss/schedsim/internal/schedcore"
	"github.com/edirooss/schedsim/pkg/fmtt"
)

type handlers struct {
	deps Deps
}

func (h *handlers) log(c *gin.Context) *zap.Logger {
	return h.deps.Log.With(zap.String("request_id", GetRequestID(c)))
}

// createSession handles POST /api/sessions.
func (h *handlers) createSession(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	policy, err := parsePolicy(req.Policy)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	id := generateSessionID()
	cfg := schedcore.Config{
		Timeslice:        req.Timeslice,
		MinimumRemaining: req.MinimumRemaining,
		Policy:           policy,
		InitPriority:     req.InitPriority,
		Logger:           h.deps.Log,
	}

	if _, err := h.deps.Mgr.Create(id, cfg); err != nil {
		_ = c.Error(err)
		status := http.StatusInternalServerError
		if errors.Is(err, schedcore.ErrInvalidConfig) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "policy": policyName(policy)})
}

// deleteSession handles DELETE /api/sessions/:id.
func (h *handlers) deleteSession(c *gin.Context) {
	id := c.Param("id")
	h.deps.Mgr.Remove(id)
	h.deps.Status.Invalidate(id)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// activate handles POST /api/sessions/:id/activate: binds the caller's
// browser session to this scheduler session (D4). GET /api/sessions/active
// reports the bound ID; the status, next, stop and delete routes still
// take the session ID in the path and do not read the binding.
func (h *handlers) activate(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.deps.Mgr.Get(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	sess := sessions.Default(c)
	sess.Set("active_session_id", id)
	if err := sess.Save(); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// getActive handles GET /api/sessions/active.
func (h *handlers) getActive(c *gin.Context) {
	sess := sessions.Default(c)
	id, _ := sess.Get("active_session_id").(string)
	if id == "" {
		c.JSON(http.StatusNotFound, gin.H{"message": "no active session bound to this browser session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// status handles GET /api/sessions/:id/status.
func (h *handlers) status(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.deps.Mgr.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	res, err := h.deps.Status.Get(sess)
	if err != nil {
		_ = c.Error(err)
		var snaps []schedcore.Snapshot
		sess.Do(func(sch *schedcore.Scheduler) {
			snaps = sch.List()
		})
		h.log(c).Error("status read failed", zap.String("id", id), zap.String("dump", fmtt.Sdump(snaps)))
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if h.deps.Snapshots != nil {
		h.deps.Snapshots.Publish(c.Request.Context(), id, res.Snapshots, res.TotalForked, time.Now().UnixMilli())
	}

	c.Header("X-Cache", map[bool]string{true: "HIT", false: "MISS"}[res.CacheHit])
	c.JSON(http.StatusOK, gin.H{
		"processes":    toSnapshotDTOs(res.Snapshots),
		"total_forked": res.TotalForked,
	})
}

// next handles POST /api/sessions/:id/next.
func (h *handlers) next(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.deps.Mgr.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	var decision schedcore.Decision
	sess.Do(func(sch *schedcore.Scheduler) {
		decision = sch.Next()
	})
	h.deps.Status.Invalidate(id)

	if decision.Kind == schedcore.DecisionPanic {
		h.log(c).Error("scheduler reached panic decision", zap.String("id", id))
	}

	c.JSON(http.StatusOK, toDecisionDTO(decision))
}

// stop handles POST /api/sessions/:id/stop.
func (h *handlers) stop(c *gin.Context) {
	id := c.Param("id")
	sess, err := h.deps.Mgr.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		return
	}

	var req stopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	reason, err := req.toStopReason()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var result schedcore.SyscallResult
	sess.Do(func(sch *schedcore.Scheduler) {
		result = sch.Stop(reason)
	})
	h.deps.Status.Invalidate(id)

	c.JSON(http.StatusOK, toResultDTO(result))
}

