package v1

import (
	"net/http"

	"github.com/dentora/backend/internal/httputil"
	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterClinicRoutes registers the routes for clinics with
// the RouterGroup that is passed.
func RegisterClinicRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsClinicList)
		r.GET("", GetClinics)
		r.POST("", CreateClinics)
	}

	// Clinic with ID
	{
		r.OPTIONS("/:id", OptionsClinicDetail)
		r.GET("/:id", GetClinic)
		r.PATCH("/:id", UpdateClinic)
		r.DELETE("/:id", DeleteClinic)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Clinics
// @Success		204
// @Router			/v1/clinics [options]
func OptionsClinicList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Clinics
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/clinics/{id} [options]
func OptionsClinicDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Clinic{})
}

// @Summary		Create clinics
// @Description	Creates new clinics
// @Tags			Clinics
// @Produce		json
// @Success		201		{object}	ClinicCreateResponse
// @Failure		400		{object}	ClinicCreateResponse
// @Failure		500		{object}	ClinicCreateResponse
// @Param			clinics	body		[]ClinicEditable	true	"Clinics"
// @Router			/v1/clinics [post]
func CreateClinics(c *gin.Context) {
	var editables []ClinicEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClinicCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ClinicCreateResponse{}

	for _, editable := range editables {
		clinic := editable.model()

		err = models.DB.Create(&clinic).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newClinic(c, clinic)
		r.Data = append(r.Data, ClinicResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get clinics
// @Description	Returns a list of clinics
// @Tags			Clinics
// @Produce		json
// @Success		200	{object}	ClinicListResponse
// @Failure		400	{object}	ClinicListResponse
// @Failure		500	{object}	ClinicListResponse
// @Router			/v1/clinics [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			currency	query	string	false	"Filter by currency code"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			offset		query	uint	false	"The offset of the first Clinic returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Clinics to return. Defaults to 50."
func GetClinics(c *gin.Context) {
	var filter ClinicQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&filterModel, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Clinics and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var clinics []models.Clinic
	err = q.Find(&clinics).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ClinicListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Clinic, 0)
	for _, clinic := range clinics {
		data = append(data, newClinic(c, clinic))
	}

	c.JSON(http.StatusOK, ClinicListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get clinic
// @Description	Returns a specific clinic
// @Tags			Clinics
// @Produce		json
// @Success		200	{object}	ClinicResponse
// @Failure		400	{object}	ClinicResponse
// @Failure		404	{object}	ClinicResponse
// @Failure		500	{object}	ClinicResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/clinics/{id} [get]
func GetClinic(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	var clinic models.Clinic
	err = models.DB.First(&clinic, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	data := newClinic(c, clinic)
	c.JSON(http.StatusOK, ClinicResponse{Data: &data})
}

// @Summary		Update clinic
// @Description	Update an existing clinic. Only values to be updated need to be specified.
// @Tags			Clinics
// @Accept			json
// @Produce		json
// @Success		200		{object}	ClinicResponse
// @Failure		400		{object}	ClinicResponse
// @Failure		404		{object}	ClinicResponse
// @Failure		500		{object}	ClinicResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			clinic	body		ClinicEditable	true	"Clinic"
// @Router			/v1/clinics/{id} [patch]
func UpdateClinic(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	var clinic models.Clinic
	err = models.DB.First(&clinic, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ClinicEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	var data ClinicEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&clinic).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ClinicResponse{
			Error: &s,
		})
		return
	}

	r := newClinic(c, clinic)
	c.JSON(http.StatusOK, ClinicResponse{Data: &r})
}

// @Summary		Delete clinic
// @Description	Deletes a clinic
// @Tags			Clinics
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/clinics/{id} [delete]
func DeleteClinic(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var clinic models.Clinic
	err = models.DB.First(&clinic, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&clinic).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
