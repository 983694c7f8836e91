package v1

import (
	"net/http"

	"github.com/dentora/backend/internal/httputil"
	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterPatientRoutes registers the routes for patients with
// the RouterGroup that is passed.
func RegisterPatientRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPatientList)
		r.GET("", GetPatients)
		r.POST("", CreatePatients)
	}

	// Patient with ID
	{
		r.OPTIONS("/:id", OptionsPatientDetail)
		r.GET("/:id", GetPatient)
		r.PATCH("/:id", UpdatePatient)
		r.DELETE("/:id", DeletePatient)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Patients
// @Success		204
// @Router			/v1/patients [options]
func OptionsPatientList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Patients
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/patients/{id} [options]
func OptionsPatientDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Patient{})
}

// @Summary		Create patients
// @Description	Creates new patients
// @Tags			Patients
// @Produce		json
// @Success		201			{object}	PatientCreateResponse
// @Failure		400			{object}	PatientCreateResponse
// @Failure		404			{object}	PatientCreateResponse
// @Failure		500			{object}	PatientCreateResponse
// @Param			patients	body		[]PatientEditable	true	"Patients"
// @Router			/v1/patients [post]
func CreatePatients(c *gin.Context) {
	var editables []PatientEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PatientCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := PatientCreateResponse{}

	for _, editable := range editables {
		patient := editable.model()

		err = models.DB.Create(&patient).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newPatient(c, patient)
		r.Data = append(r.Data, PatientResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get patients
// @Description	Returns a list of patients
// @Tags			Patients
// @Produce		json
// @Success		200	{object}	PatientListResponse
// @Failure		400	{object}	PatientListResponse
// @Failure		500	{object}	PatientListResponse
// @Router			/v1/patients [get]
// @Param			clinic	query	string	false	"Filter by clinic ID"
// @Param			name	query	string	false	"Filter by name"
// @Param			phone	query	string	false	"Filter by phone number"
// @Param			email	query	string	false	"Filter by email address"
// @Param			note	query	string	false	"Filter by note"
// @Param			search	query	string	false	"Search for this text in name and note"
// @Param			offset	query	uint	false	"The offset of the first Patient returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of Patients to return. Defaults to 50."
func GetPatients(c *gin.Context) {
	var filter PatientQueryFilter

	// Every parameter is bound into a string, so this will always succeed
	_ = c.Bind(&filter)

	// Get the fields that we are filtering for
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	filterModel, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientListResponse{
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

	// Default to 50 Patients and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var patients []models.Patient
	err = q.Find(&patients).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PatientListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Patient, 0)
	for _, patient := range patients {
		data = append(data, newPatient(c, patient))
	}

	c.JSON(http.StatusOK, PatientListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get patient
// @Description	Returns a specific patient
// @Tags			Patients
// @Produce		json
// @Success		200	{object}	PatientResponse
// @Failure		400	{object}	PatientResponse
// @Failure		404	{object}	PatientResponse
// @Failure		500	{object}	PatientResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/patients/{id} [get]
func GetPatient(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	var patient models.Patient
	err = models.DB.First(&patient, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	data := newPatient(c, patient)
	c.JSON(http.StatusOK, PatientResponse{Data: &data})
}

// @Summary		Update patient
// @Description	Update an existing patient. Only values to be updated need to be specified.
// @Tags			Patients
// @Accept			json
// @Produce		json
// @Success		200		{object}	PatientResponse
// @Failure		400		{object}	PatientResponse
// @Failure		404		{object}	PatientResponse
// @Failure		500		{object}	PatientResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			patient	body		PatientEditable	true	"Patient"
// @Router			/v1/patients/{id} [patch]
func UpdatePatient(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	var patient models.Patient
	err = models.DB.First(&patient, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, PatientEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	var data PatientEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&patient).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), PatientResponse{
			Error: &s,
		})
		return
	}

	r := newPatient(c, patient)
	c.JSON(http.StatusOK, PatientResponse{Data: &r})
}

// @Summary		Delete patient
// @Description	Deletes a patient
// @Tags			Patients
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var patient models.Patient
	err = models.DB.First(&patient, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&patient).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
