package v1

import (
	"net/http"

	"github.com/dentora/backend/internal/httputil"
	"github.com/dentora/backend/internal/permissions"
	"github.com/gin-gonic/gin"
)

// RegisterPermissionsRoutes registers the routes for permissions with
// the RouterGroup that is passed.
func RegisterPermissionsRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsPermissions)
	r.GET("", GetPermissions)
}

// SectionPermissions is the access a role has to one section of the UI.
type SectionPermissions struct {
	View   bool `json:"view" example:"true"`    // Can the role see the section?
	Edit   bool `json:"edit" example:"false"`   // Can the role change resources in the section?
	Delete bool `json:"delete" example:"false"` // Can the role delete resources in the section?
}

type Permissions struct {
	Role     permissions.Role                           `json:"role" example:"recepcionista"` // The role the permissions apply to
	Sections map[permissions.Section]SectionPermissions `json:"sections"`                     // Access per section
}

type PermissionsResponse struct {
	Data  *Permissions `json:"data"`                                                 // Data for the role
	Error *string      `json:"error" example:"the role query parameter must be set"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Permissions
// @Success		204
// @Router			/v1/permissions [options]
func OptionsPermissions(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get permissions
// @Description	Returns the section permissions for a role. Unknown roles get the most restrictive set.
// @Tags			Permissions
// @Produce		json
// @Success		200		{object}	PermissionsResponse
// @Failure		400		{object}	PermissionsResponse
// @Param			role	query		string	true	"The role to get permissions for"
// @Router			/v1/permissions [get]
func GetPermissions(c *gin.Context) {
	var params struct {
		Role string `form:"role"`
	}

	_ = c.Bind(&params)
	if params.Role == "" {
		s := errRoleNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, PermissionsResponse{
			Error: &s,
		})
		return
	}

	role := permissions.Role(params.Role)

	sections := make(map[permissions.Section]SectionPermissions, len(permissions.Sections))
	for _, section := range permissions.Sections {
		sections[section] = SectionPermissions{
			View:   permissions.CanView(role, section),
			Edit:   permissions.CanEdit(role, section),
			Delete: permissions.CanDelete(role, section),
		}
	}

	c.JSON(http.StatusOK, PermissionsResponse{
		Data: &Permissions{
			Role:     role,
			Sections: sections,
		},
	})
}
