package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/dimitrije/taskhive-api/internal/apperr"
	"github.com/dimitrije/taskhive-api/internal/middleware"
	"github.com/dimitrije/taskhive-api/internal/permissions"
	"github.com/dimitrije/taskhive-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type validator interface {
	Validate() error
}

// bindJSON decodes the request body into dst, rejecting unknown fields, and
// runs dst's validation when it has one. Failures are written as 400.
func bindJSON(c *drift.Context, dst any) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			middleware.RespondError(c, apperr.BadRequest("Request body is required"))
		} else {
			middleware.RespondError(c, apperr.BadRequest("Invalid request body: "+err.Error()))
		}
		return false
	}
	if v, ok := dst.(validator); ok {
		if err := v.Validate(); err != nil {
			middleware.RespondError(c, apperr.BadRequest(err.Error()))
			return false
		}
	}
	return true
}

func uuidParam(c *drift.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.RespondError(c, apperr.BadRequest("Invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *drift.Context) services.Pagination {
	size, _ := strconv.Atoi(c.QueryParam("pageSize"))
	number, _ := strconv.Atoi(c.QueryParam("pageNumber"))
	return services.Pagination{PageSize: size, PageNumber: number}.Normalize()
}

// guard resolves the caller's role in workspaceID and checks it against the
// required permissions. It writes the error response and returns false when
// access is denied.
func guard(c *drift.Context, members MemberServiceInterface, table *permissions.Table, workspaceID uuid.UUID, required ...permissions.Permission) bool {
	role, err := members.GetMemberRoleInWorkspace(c.Request.Context(), middleware.GetUserID(c), workspaceID)
	if err != nil {
		middleware.RespondError(c, err)
		return false
	}
	if err := table.Guard(role, required...); err != nil {
		middleware.RespondError(c, err)
		return false
	}
	return true
}
