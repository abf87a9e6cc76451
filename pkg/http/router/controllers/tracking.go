package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	helper "github.com/lifeline-ops/ambutrack/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type trackingAPI struct {
	trackingService TrackingService
	log             *zap.Logger
}

func New(trackingService TrackingService, log *zap.Logger) *trackingAPI {
	return &trackingAPI{
		trackingService: trackingService,
		log:             log,
	}
}

func (api *trackingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/routes", api.routeCatalog)
	group.GET("/vehicles", api.vehiclesInViewport)
	group.GET("/vehicles/:id/position", api.vehicleState)
	group.POST("/vehicles/:id/position", api.pushFix)
	group.POST("/vehicles/:id/simulation/start", api.startSimulation)
	group.POST("/vehicles/:id/simulation/stop", api.stopSimulation)
	group.DELETE("/vehicles/:id", api.removeVehicle)
}

func (api *trackingAPI) validateStruct(w http.ResponseWriter, r *http.Request, request interface{}) bool {
	validate := validator.New()
	if err := validate.Struct(request); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return false
	}
	return true
}

func (api *trackingAPI) pushFix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request pushFixRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if !api.validateStruct(w, r, request) {
		return
	}

	vehicleID := p.ByName("id")
	if err := api.trackingService.PushFix(vehicleID, request.Lat, request.Lon); err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	snap, err := api.trackingService.VehicleState(vehicleID)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewVehicleResponse(snap)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trackingAPI) vehicleState(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	snap, err := api.trackingService.VehicleState(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewVehicleResponse(snap)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trackingAPI) startSimulation(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request startSimulationRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if !api.validateStruct(w, r, request) {
		return
	}

	vehicleID := p.ByName("id")
	err := api.trackingService.StartSimulation(vehicleID,
		request.RouteName, request.Polyline, request.SpeedKmh, request.StepSeconds)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusAccepted,
		envelope{"data": map[string]string{"status": "started", "vehicle_id": vehicleID}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trackingAPI) stopSimulation(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	vehicleID := p.ByName("id")
	if err := api.trackingService.StopSimulation(vehicleID); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": map[string]string{"status": "stopped", "vehicle_id": vehicleID}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trackingAPI) removeVehicle(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	vehicleID := p.ByName("id")
	if err := api.trackingService.RemoveVehicle(vehicleID); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": map[string]string{"status": "removed", "vehicle_id": vehicleID}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trackingAPI) vehiclesInViewport(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request viewportRequest
		err     error
	)

	query := r.URL.Query()

	request.MinLat, err = strconv.ParseFloat(query.Get("min_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("min_lat is required and must be a valid float"))
		return
	}
	request.MinLon, err = strconv.ParseFloat(query.Get("min_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("min_lon is required and must be a valid float"))
		return
	}
	request.MaxLat, err = strconv.ParseFloat(query.Get("max_lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("max_lat is required and must be a valid float"))
		return
	}
	request.MaxLon, err = strconv.ParseFloat(query.Get("max_lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("max_lon is required and must be a valid float"))
		return
	}
	if !api.validateStruct(w, r, request) {
		return
	}

	snaps := api.trackingService.VehiclesWithin(request.MinLat, request.MinLon,
		request.MaxLat, request.MaxLon)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewVehicleResponses(snaps)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *trackingAPI) routeCatalog(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK,
		envelope{"data": api.trackingService.Routes()}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
