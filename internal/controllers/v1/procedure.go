package v1

import (
	"fmt"
	"net/http"

	"github.com/dentora/backend/internal/httputil"
	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterProcedureRoutes registers the routes for procedures with
// the RouterGroup that is passed.
func RegisterProcedureRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsProcedureList)
		r.GET("", GetProcedures)
		r.POST("", CreateProcedures)
	}

	// Procedure with ID
	{
		r.OPTIONS("/:id", OptionsProcedureDetail)
		r.GET("/:id", GetProcedure)
		r.PATCH("/:id", UpdateProcedure)
		r.DELETE("/:id", DeleteProcedure)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Procedures
// @Success		204
// @Router			/v1/procedures [options]
func OptionsProcedureList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Procedures
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/procedures/{id} [options]
func OptionsProcedureDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Procedure{})
}

// @Summary		Create procedures
// @Description	Creates new procedures in the catalog
// @Tags			Procedures
// @Produce		json
// @Success		201			{object}	ProcedureCreateResponse
// @Failure		400			{object}	ProcedureCreateResponse
// @Failure		404			{object}	ProcedureCreateResponse
// @Failure		500			{object}	ProcedureCreateResponse
// @Param			procedures	body		[]ProcedureEditable	true	"Procedures"
// @Router			/v1/procedures [post]
func CreateProcedures(c *gin.Context) {
	var editables []ProcedureEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProcedureCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ProcedureCreateResponse{}

	for _, editable := range editables {
		procedure := editable.model()

		err = models.DB.Create(&procedure).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newProcedure(c, procedure)
		r.Data = append(r.Data, ProcedureResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get procedures
// @Description	Returns a list of procedures
// @Tags			Procedures
// @Produce		json
// @Success		200	{object}	ProcedureListResponse
// @Failure		400	{object}	ProcedureListResponse
// @Failure		500	{object}	ProcedureListResponse
// @Router			/v1/procedures [get]
// @Param			clinic		query	string	false	"Filter by clinic ID"
// @Param			name		query	string	false	"Filter by name"
// @Param			match		query	string	false	"Filter by glob pattern on the name"
// @Param			archived	query	bool	false	"Is the procedure archived?"
// @Param			search		query	string	false	"Search for this text in name and description"
// @Param			offset		query	uint	false	"The offset of the first Procedure returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Procedures to return. Defaults to 50."
func GetProcedures(c *gin.Context) {
	var filter ProcedureQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	if filter.Name != "" {
		q = q.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Name))
	} else if slices.Contains(setFields, "Name") {
		q = q.Where("name = ''")
	}

	if filter.Search != "" {
		q = q.Where(
			models.DB.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)).Or(
				models.DB.Where("name LIKE ?", fmt.Sprintf("%%%s%%", filter.Search)),
			),
		)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Procedures and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var procedures []models.Procedure
	err = q.Find(&procedures).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ProcedureListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Procedure, 0)
	for _, procedure := range procedures {
		// The glob match runs on the already filtered rows since SQLite
		// cannot evaluate glob patterns with the same semantics
		if filter.Match != "" && !glob.Glob(filter.Match, procedure.Name) {
			count--
			continue
		}

		data = append(data, newProcedure(c, procedure))
	}

	c.JSON(http.StatusOK, ProcedureListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get procedure
// @Description	Returns a specific procedure
// @Tags			Procedures
// @Produce		json
// @Success		200	{object}	ProcedureResponse
// @Failure		400	{object}	ProcedureResponse
// @Failure		404	{object}	ProcedureResponse
// @Failure		500	{object}	ProcedureResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/procedures/{id} [get]
func GetProcedure(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	var procedure models.Procedure
	err = models.DB.First(&procedure, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	data := newProcedure(c, procedure)
	c.JSON(http.StatusOK, ProcedureResponse{Data: &data})
}

// @Summary		Update procedure
// @Description	Update an existing procedure. Only values to be updated need to be specified.
// @Tags			Procedures
// @Accept			json
// @Produce		json
// @Success		200			{object}	ProcedureResponse
// @Failure		400			{object}	ProcedureResponse
// @Failure		404			{object}	ProcedureResponse
// @Failure		500			{object}	ProcedureResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			procedure	body		ProcedureEditable	true	"Procedure"
// @Router			/v1/procedures/{id} [patch]
func UpdateProcedure(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	var procedure models.Procedure
	err = models.DB.First(&procedure, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ProcedureEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	var data ProcedureEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&procedure).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ProcedureResponse{
			Error: &s,
		})
		return
	}

	r := newProcedure(c, procedure)
	c.JSON(http.StatusOK, ProcedureResponse{Data: &r})
}

// @Summary		Delete procedure
// @Description	Deletes a procedure from the catalog. Budget items created from it keep their copies.
// @Tags			Procedures
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/procedures/{id} [delete]
func DeleteProcedure(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var procedure models.Procedure
	err = models.DB.First(&procedure, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&procedure).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
