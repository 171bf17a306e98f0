package handler

import (
	"encoding/json"
	"net/http"

	"github.com/carmarket-api/internal/application/catalog"
	"github.com/carmarket-api/internal/application/emi"
	"github.com/carmarket-api/internal/config"
	"github.com/carmarket-api/internal/domain"
	"github.com/carmarket-api/internal/pkg/validate"
)

// UtilsHandler handles the public utility endpoints: EMI calculator, cities,
// car data, client config and health.
type UtilsHandler struct {
	emi     emi.Service
	catalog catalog.Service
	cfg     *config.Config
}

func NewUtilsHandler(emiSvc emi.Service, catalogSvc catalog.Service, cfg *config.Config) *UtilsHandler {
	return &UtilsHandler{emi: emiSvc, catalog: catalogSvc, cfg: cfg}
}

func (h *UtilsHandler) CalculateEMI(w http.ResponseWriter, r *http.Request) {
	var req emi.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		validationError(w, err)
		return
	}
	result, err := h.emi.Calculate(req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

func (h *UtilsHandler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.catalog.ListCities(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]interface{}{"cities": cities})
}

// CarData returns the brand/model tree plus the option enums clients need to
// render a listing form.
func (h *UtilsHandler) CarData(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}

	type brandData struct {
		Brand  domain.Brand      `json:"brand"`
		Models []domain.CarModel `json:"models"`
	}
	data := make([]brandData, 0, len(brands))
	for _, b := range brands {
		models, err := h.catalog.ListModels(r.Context(), b.BrandID)
		if err != nil {
			httpError(w, err)
			return
		}
		data = append(data, brandData{Brand: b, Models: models})
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"brands":        data,
		"fuel_types":    domain.FuelTypes(),
		"transmissions": domain.Transmissions(),
		"conditions":    domain.Conditions(),
	})
}

func (h *UtilsHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]interface{}{
		"env":             h.cfg.AppEnv,
		"media_base_url":  h.cfg.MediaBaseURL,
		"otp_expiry_secs": int(h.cfg.OTPExpiry.Seconds()),
		"max_car_price":   domain.CarPriceMax,
		"min_car_year":    domain.CarYearMin,
	})
}

func (h *UtilsHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
