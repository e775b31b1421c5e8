package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/vidinfra/commtrack/internal/api/dto"
	v1 "github.com/vidinfra/commtrack/internal/api/v1"
	"github.com/vidinfra/commtrack/internal/cache"
	"github.com/vidinfra/commtrack/internal/publisher"
	"github.com/vidinfra/commtrack/internal/rest/middleware"
	"github.com/vidinfra/commtrack/internal/sentry"
	"github.com/vidinfra/commtrack/internal/service"
	"github.com/vidinfra/commtrack/internal/testutil"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
	ps     *testutil.RecordingPubSub
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	gin.SetMode(gin.TestMode)

	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		stores.GlobalStatusRepo,
		stores.CommTypeRepo,
		stores.TypeStatusRepo,
		stores.CommunicationRepo,
		stores.StatusHistoryRepo,
	)
	sentryService := sentry.NewSentryService(s.GetConfig(), s.GetLogger())
	catalog := service.NewCatalogService(params)
	mappings := service.NewMappingService(params)
	taxonomy := service.NewTaxonomyService(params)
	communications := service.NewCommunicationService(params, service.NewTransitionValidator(params))
	events := service.NewTransitionEventHandler(
		params,
		communications,
		sentryService,
		cache.NewDeduplicator(cache.NewInMemoryCache(s.GetConfig().Consumer.DedupeTTL), s.GetConfig().Consumer.DedupeTTL),
	)
	s.ps = testutil.NewRecordingPubSub()

	s.router = NewRouter(Handlers{
		Health:        v1.NewHealthHandler(s.GetLogger()),
		Status:        v1.NewStatusHandler(catalog, s.GetLogger()),
		Type:          v1.NewTypeHandler(taxonomy, mappings, s.GetLogger()),
		Communication: v1.NewCommunicationHandler(communications, s.GetLogger()),
		Events:        v1.NewEventsHandler(events, publisher.NewEventPublisher(s.GetConfig(), s.ps, s.GetLogger()), s.GetLogger()),
	}, s.GetConfig(), s.GetLogger(), sentryService)

	seeder := service.NewSeedService(params, catalog, taxonomy)
	_, err := seeder.SeedDefaultTaxonomy(s.GetContext())
	s.Require().NoError(err)
}

func (s *RouterSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		s.Require().NoError(json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, into any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (s *RouterSuite) errorOf(w *httptest.ResponseRecorder) middleware.ErrorResponse {
	var resp middleware.ErrorResponse
	s.decode(w, &resp)
	s.False(resp.Success)
	return resp
}

func (s *RouterSuite) createCommunication(typeCode string) string {
	w := s.do(http.MethodPost, "/v1/communications", dto.CreateCommunicationRequest{
		TypeCode: typeCode,
		Title:    "Member statement",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.CommunicationResponse
	s.decode(w, &resp)
	return resp.ID
}

func (s *RouterSuite) TestHealthAndRequestID() {
	w := s.do(http.MethodGet, "/health", nil, "X-Request-ID", "req-123")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("req-123", w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/health", nil)
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *RouterSuite) TestCommunicationLifecycle() {
	id := s.createCommunication("EOB")

	w := s.do(http.MethodPost, "/v1/communications/"+id+"/transitions", dto.TransitionRequest{StatusCode: "Printed"},
		"X-User-ID", "printer-7")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/v1/communications/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var got dto.CommunicationResponse
	s.decode(w, &got)
	s.Equal("Printed", got.CurrentStatus)
	s.Equal("printer-7", got.UpdatedBy)
	s.Len(got.History, 2)

	w = s.do(http.MethodGet, "/v1/communications/"+id+"/consistency", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var report dto.ConsistencyReport
	s.decode(w, &report)
	s.True(report.Consistent)

	w = s.do(http.MethodDelete, "/v1/communications/"+id, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/v1/communications/"+id, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("not_found", s.errorOf(w).Error.Code)

	w = s.do(http.MethodPost, "/v1/communications/"+id+"/restore", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestErrorMapping() {
	id := s.createCommunication("EOB")

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "unknown_type",
			method: http.MethodPost,
			path:   "/v1/communications",
			body:   dto.CreateCommunicationRequest{TypeCode: "MISSING", Title: "x"},
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "malformed_json",
			method: http.MethodPost,
			path:   "/v1/communications",
			body:   "{",
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "status_not_allowed",
			method: http.MethodPost,
			path:   "/v1/communications/" + id + "/transitions",
			body:   dto.TransitionRequest{StatusCode: "Returned"},
			status: http.StatusUnprocessableEntity,
			code:   "business_rule_violation",
		},
		{
			name:   "duplicate_type",
			method: http.MethodPost,
			path:   "/v1/types",
			body:   dto.CreateTypeRequest{TypeCode: "EOB", DisplayName: "x", StatusCodes: []string{"Pending"}},
			status: http.StatusConflict,
			code:   "already_exists",
		},
		{
			name:   "page_size_too_large",
			method: http.MethodGet,
			path:   "/v1/communications?page=1&page_size=5000",
			status: http.StatusBadRequest,
			code:   "validation_error",
		},
		{
			name:   "deactivate_mapped_status",
			method: http.MethodPost,
			path:   "/v1/statuses/Pending/deactivate",
			status: http.StatusUnprocessableEntity,
			code:   "business_rule_violation",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			w := s.do(tc.method, tc.path, tc.body)
			s.Equal(tc.status, w.Code, w.Body.String())
			resp := s.errorOf(w)
			s.Equal(tc.code, resp.Error.Code)
			s.NotEmpty(resp.Error.Display)
		})
	}
}

func (s *RouterSuite) TestRejectedTransitionCarriesReason() {
	id := s.createCommunication("EOB")

	w := s.do(http.MethodPost, "/v1/communications/"+id+"/transitions", dto.TransitionRequest{StatusCode: "Returned"})
	s.Require().Equal(http.StatusUnprocessableEntity, w.Code)

	resp := s.errorOf(w)
	s.Equal("status_not_allowed_for_type", resp.Error.Details["reason"])
	s.Equal("Returned", resp.Error.Details["status_code"])
}

func (s *RouterSuite) TestTypeEndpoints() {
	w := s.do(http.MethodPost, "/v1/types", dto.CreateTypeRequest{
		TypeCode:    "LETTER",
		DisplayName: "Letter",
		StatusCodes: []string{"Pending", "Shipped"},
	}, "X-User-ID", "admin")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created dto.TypeResponse
	s.decode(w, &created)
	s.Equal("admin", created.CreatedBy)
	s.Len(created.ValidStatuses, 2)

	w = s.do(http.MethodPut, "/v1/types/LETTER/statuses", dto.ReplaceMappingsRequest{StatusCodes: []string{"Delivered"}})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var mappings dto.MappingsResponse
	s.decode(w, &mappings)
	s.Require().Len(mappings.Items, 1)
	s.Equal(1, mappings.Items[0].SortOrder)

	w = s.do(http.MethodPost, "/v1/types/LETTER/statuses/validate", dto.ValidateCodesRequest{StatusCodes: []string{"Pending"}})
	s.Require().Equal(http.StatusOK, w.Code)
	var validation dto.ValidateCodesResponse
	s.decode(w, &validation)
	s.False(validation.Valid)

	w = s.do(http.MethodDelete, "/v1/types/LETTER", nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, "/v1/types", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list dto.ListTypesResponse
	s.decode(w, &list)
	s.Len(list.Items, 3)

	w = s.do(http.MethodGet, "/v1/types/bad-code", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *RouterSuite) TestListCommunicationsPaging() {
	for i := 0; i < 3; i++ {
		s.createCommunication("EOB")
	}
	s.createCommunication("ID_CARD")

	w := s.do(http.MethodGet, "/v1/communications?type_code=EOB&page=1&page_size=2", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var page dto.ListCommunicationsResponse
	s.decode(w, &page)
	s.Len(page.Items, 2)
	s.Equal(3, page.Pagination.Total)
	s.Equal(2, page.Pagination.PageSize)
}

func (s *RouterSuite) TestIngestEvent() {
	id := s.createCommunication("EOB")

	w := s.do(http.MethodPost, "/v1/events", dto.TransitionEvent{CommunicationID: id, StatusCode: "Shipped"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/v1/events?async=true", dto.TransitionEvent{CommunicationID: id, StatusCode: "Delivered"})
	s.Require().Equal(http.StatusAccepted, w.Code, w.Body.String())
	var accepted dto.EventAcceptedResponse
	s.decode(w, &accepted)
	s.NotEmpty(accepted.MessageID)
	s.Equal(s.GetConfig().Consumer.Topic, accepted.Topic)

	published := s.ps.Published(accepted.Topic)
	s.Require().Len(published, 1)
	s.Equal(accepted.MessageID, published[0].UUID)
	s.Equal(id, published[0].Metadata.Get("communication_id"))

	w = s.do(http.MethodPost, "/v1/events", dto.TransitionEvent{CommunicationID: id})
	s.Equal(http.StatusBadRequest, w.Code)
}
