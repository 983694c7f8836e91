package v1

import (
	"net/http"

	"github.com/dentora/backend/internal/httputil"
	"github.com/dentora/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetItems
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/items [options]
func OptionsBudgetItemList(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Budget{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetItems
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path	string	true	"ID of the item"
// @Router			/v1/budgets/{id}/items/{itemId} [options]
func OptionsBudgetItemDetail(c *gin.Context) {
	var uri URIItem
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	_, err = getBudgetItem(uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// getBudgetItem loads an item and verifies that it belongs to the budget
// in the URI. Items of other budgets are reported as not found.
func getBudgetItem(uri URIItem) (models.BudgetItem, error) {
	var item models.BudgetItem
	err := models.DB.First(&item, uri.ItemID).Error
	if err != nil {
		return models.BudgetItem{}, err
	}

	if item.BudgetID != uri.ID.UUID {
		return models.BudgetItem{}, models.ErrResourceNotFound
	}

	return item, nil
}

// @Summary		Create items
// @Description	Adds items to a budget. When procedureId is set, name, description and unit price are copied from the catalog entry unless they are given explicitly.
// @Tags			BudgetItems
// @Produce		json
// @Success		201		{object}	BudgetItemCreateResponse
// @Failure		400		{object}	BudgetItemCreateResponse
// @Failure		404		{object}	BudgetItemCreateResponse
// @Failure		409		{object}	BudgetItemCreateResponse
// @Failure		500		{object}	BudgetItemCreateResponse
// @Param			id		path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			items	body		[]BudgetItemEditable	true	"Items"
// @Router			/v1/budgets/{id}/items [post]
func CreateBudgetItems(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetItemCreateResponse{
			Error: &e,
		})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetItemCreateResponse{
			Error: &e,
		})
		return
	}

	var editables []BudgetItemEditable
	err = httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetItemCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetItemCreateResponse{}

	for _, editable := range editables {
		item := editable.model(budget.ID)

		err = prefillFromCatalog(&item, budget.ClinicID)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		err = models.DB.Create(&item).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudgetItem(c, item)
		r.Data = append(r.Data, BudgetItemResponse{Data: &data})
	}

	c.JSON(status, r)
}

// prefillFromCatalog copies name, description and unit price from the
// referenced catalog procedure for every value the request left empty.
func prefillFromCatalog(item *models.BudgetItem, clinicID uuid.UUID) error {
	if item.ProcedureID == nil || *item.ProcedureID == uuid.Nil {
		return nil
	}

	var procedure models.Procedure
	err := models.DB.First(&procedure, *item.ProcedureID).Error
	if err != nil {
		return err
	}

	if procedure.ClinicID != clinicID {
		return models.ErrProcedureNotInClinic
	}

	if item.Name == "" {
		item.Name = procedure.Name
	}

	if item.Description == "" {
		item.Description = procedure.Description
	}

	if item.UnitPrice.IsZero() {
		item.UnitPrice = procedure.Price
	}

	if item.Quantity == 0 {
		item.Quantity = 1
	}

	return nil
}

// @Summary		Get items
// @Description	Returns the items of a budget in display order
// @Tags			BudgetItems
// @Produce		json
// @Success		200	{object}	BudgetItemListResponse
// @Failure		400	{object}	BudgetItemListResponse
// @Failure		404	{object}	BudgetItemListResponse
// @Failure		500	{object}	BudgetItemListResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/budgets/{id}/items [get]
func GetBudgetItems(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemListResponse{
			Error: &s,
		})
		return
	}

	var budget models.Budget
	err = models.DB.First(&budget, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemListResponse{
			Error: &s,
		})
		return
	}

	items, err := budget.LineItems(models.DB)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemListResponse{
			Error: &s,
		})
		return
	}

	data := make([]BudgetItem, 0)
	for _, item := range items {
		data = append(data, newBudgetItem(c, item))
	}

	c.JSON(http.StatusOK, BudgetItemListResponse{Data: data})
}

// @Summary		Get item
// @Description	Returns a specific item of a budget
// @Tags			BudgetItems
// @Produce		json
// @Success		200		{object}	BudgetItemResponse
// @Failure		400		{object}	BudgetItemResponse
// @Failure		404		{object}	BudgetItemResponse
// @Failure		500		{object}	BudgetItemResponse
// @Param			id		path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path		string	true	"ID of the item"
// @Router			/v1/budgets/{id}/items/{itemId} [get]
func GetBudgetItem(c *gin.Context) {
	var uri URIItem
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	item, err := getBudgetItem(uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	data := newBudgetItem(c, item)
	c.JSON(http.StatusOK, BudgetItemResponse{Data: &data})
}

// @Summary		Update item
// @Description	Update an item of a budget. Only values to be updated need to be specified. Locked once the budget is approved or rejected.
// @Tags			BudgetItems
// @Accept			json
// @Produce		json
// @Success		200		{object}	BudgetItemResponse
// @Failure		400		{object}	BudgetItemResponse
// @Failure		404		{object}	BudgetItemResponse
// @Failure		409		{object}	BudgetItemResponse
// @Failure		500		{object}	BudgetItemResponse
// @Param			id		path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path		string				true	"ID of the item"
// @Param			item	body		BudgetItemEditable	true	"Item"
// @Router			/v1/budgets/{id}/items/{itemId} [patch]
func UpdateBudgetItem(c *gin.Context) {
	var uri URIItem
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	item, err := getBudgetItem(uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetItemEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	var data BudgetItemEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&item).Select("", updateFields...).Updates(data.model(item.BudgetID)).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetItemResponse{
			Error: &s,
		})
		return
	}

	r := newBudgetItem(c, item)
	c.JSON(http.StatusOK, BudgetItemResponse{Data: &r})
}

// @Summary		Delete item
// @Description	Removes an item from a budget. Locked once the budget is approved or rejected.
// @Tags			BudgetItems
// @Success		204
// @Failure		400		{object}	httpError
// @Failure		404		{object}	httpError
// @Failure		409		{object}	httpError
// @Failure		500		{object}	httpError
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			itemId	path	string	true	"ID of the item"
// @Router			/v1/budgets/{id}/items/{itemId} [delete]
func DeleteBudgetItem(c *gin.Context) {
	var uri URIItem
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	item, err := getBudgetItem(uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&item).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
