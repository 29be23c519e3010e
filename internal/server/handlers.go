package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/atcvirtual/atcvirtual/internal/freq"
	"github.com/atcvirtual/atcvirtual/internal/llm"
	"github.com/atcvirtual/atcvirtual/internal/phase"
	"github.com/atcvirtual/atcvirtual/internal/session"
	"github.com/atcvirtual/atcvirtual/internal/settings"
	"github.com/atcvirtual/atcvirtual/internal/wx"
)

type errorBody struct {
	Error string `json:"error"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorBody{Error: msg})
}

// phaseView is the timeline entry the UI renders.
type phaseView struct {
	ID                   string   `json:"id"`
	Label                string   `json:"label"`
	ShortLabel           string   `json:"shortLabel"`
	Position             int      `json:"position"`
	ExpectedVFR          []string `json:"expectedServiceVfr"`
	ExpectedIFR          []string `json:"expectedServiceIfr"`
	SilenceRequired      bool     `json:"silenceRequired"`
	CommunicationAllowed bool     `json:"communicationAllowed"`
	Airport              string   `json:"airport"`
	Hint                 string   `json:"expectedServiceHint,omitempty"`
}

func (s *Server) listPhases(c echo.Context) error {
	var out []phaseView
	for _, p := range phase.All() {
		out = append(out, phaseView{
			ID:                   string(p.ID),
			Label:                p.Label,
			ShortLabel:           p.ShortLabel,
			Position:             p.Position,
			ExpectedVFR:          serviceNames(p.ExpectedService[phase.VFR]),
			ExpectedIFR:          serviceNames(p.ExpectedService[phase.IFR]),
			SilenceRequired:      p.SilenceRequired,
			CommunicationAllowed: p.CommunicationAllowed,
			Airport:              string(p.Airport),
			Hint:                 p.ExpectedServiceHint,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func serviceNames(types []freq.ServiceType) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func (s *Server) listModels(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"default": llm.DefaultModel,
		"models":  llm.Models(),
	})
}

func (s *Server) airportFrequencies(c echo.Context) error {
	icao := c.Param("icao")
	if !wx.ValidFormat(icao) {
		return fail(c, http.StatusBadRequest, "ICAO inválido (4 letras)")
	}
	if s.weather != nil {
		if list, err := s.weather.StationFrequencies(c.Request().Context(), icao); err == nil && len(list) > 0 {
			return c.JSON(http.StatusOK, list)
		}
	}
	return c.JSON(http.StatusOK, freq.Lookup(icao))
}

func (s *Server) getMETAR(c echo.Context) error {
	icao := c.Param("icao")
	if !wx.ValidFormat(icao) {
		return fail(c, http.StatusBadRequest, "ICAO inválido (4 letras)")
	}
	if s.weather == nil {
		return fail(c, http.StatusServiceUnavailable, "serviço meteorológico não configurado")
	}
	m, err := s.weather.METAR(c.Request().Context(), icao)
	if errors.Is(err, wx.ErrNoKey) {
		return fail(c, http.StatusServiceUnavailable, "API Key AVWX não configurada")
	}
	if err != nil {
		return fail(c, http.StatusBadGateway, "METAR não disponível")
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) getTAF(c echo.Context) error {
	icao := c.Param("icao")
	if !wx.ValidFormat(icao) {
		return fail(c, http.StatusBadRequest, "ICAO inválido (4 letras)")
	}
	if s.weather == nil {
		return fail(c, http.StatusServiceUnavailable, "serviço meteorológico não configurado")
	}
	taf, err := s.weather.TAF(c.Request().Context(), icao)
	if errors.Is(err, wx.ErrNoKey) {
		return fail(c, http.StatusServiceUnavailable, "API Key AVWX não configurada")
	}
	if err != nil {
		return fail(c, http.StatusBadGateway, "TAF não disponível")
	}
	return c.JSON(http.StatusOK, taf)
}

func (s *Server) getSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, s.settings.Get())
}

func (s *Server) updateSettings(c echo.Context) error {
	var in settings.Settings
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "corpo inválido")
	}
	if len(in.AnthropicAPIKey) > session.MaxAPIKeyLen ||
		len(in.GatewayAPIKey) > session.MaxAPIKeyLen ||
		len(in.AVWXAPIKey) > session.MaxAPIKeyLen {
		return fail(c, http.StatusBadRequest, "API key muito longa")
	}
	if len(in.SystemPrompt) > session.MaxSystemPromptLen {
		return fail(c, http.StatusBadRequest, "prompt muito longo")
	}
	out, err := s.settings.Update(func(cur *settings.Settings) { *cur = in })
	if err != nil {
		return fail(c, http.StatusInternalServerError, "falha ao salvar configurações")
	}
	if s.weather != nil {
		s.weather.APIKey = out.AVWXAPIKey
	}
	return c.JSON(http.StatusOK, out)
}

// flightView is the session snapshot returned by the flight endpoints.
type flightView struct {
	ID           string                `json:"id"`
	Flight       session.FlightData    `json:"flightData"`
	Phase        string                `json:"currentPhase"`
	Tuned        *freq.Selected        `json:"selectedFrequency"`
	Departure    []freq.Frequency      `json:"departureFrequencies"`
	Arrival      []freq.Frequency      `json:"arrivalFrequencies"`
	METARContext string                `json:"metarContext,omitempty"`
	History      []session.ChatMessage `json:"messages"`
}

func snapshot(s *session.Session) flightView {
	return flightView{
		ID:           s.ID,
		Flight:       s.Flight,
		Phase:        string(s.Phase),
		Tuned:        s.Tuned,
		Departure:    s.DepartureFreqs,
		Arrival:      s.ArrivalFreqs,
		METARContext: s.METARContext,
		History:      s.History,
	}
}

func (s *Server) startFlight(c echo.Context) error {
	var fd session.FlightData
	if err := c.Bind(&fd); err != nil {
		return fail(c, http.StatusBadRequest, "corpo inválido")
	}
	sess, err := s.manager.StartFlight(c.Request().Context(), fd)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, snapshot(sess))
}

func (s *Server) getFlight(c echo.Context) error {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, snapshot(sess))
}

func (s *Server) endFlight(c echo.Context) error {
	if err := s.manager.EndFlight(c.Param("id")); err != nil {
		return fail(c, http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) setPhase(c echo.Context) error {
	var in struct {
		Phase string `json:"phase"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "corpo inválido")
	}
	p, err := phase.Parse(in.Phase)
	if err != nil {
		return fail(c, http.StatusBadRequest, err.Error())
	}
	if err := s.manager.SetPhase(c.Param("id"), p); err != nil {
		return fail(c, http.StatusNotFound, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) tune(c echo.Context) error {
	var in struct {
		Selected *freq.Selected `json:"selectedFrequency"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "corpo inválido")
	}
	if in.Selected != nil && !in.Selected.Type.Valid() {
		return fail(c, http.StatusBadRequest, "tipo de frequência inválido")
	}
	if err := s.manager.Tune(c.Param("id"), in.Selected); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return fail(c, http.StatusNotFound, err.Error())
		}
		return fail(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) chat(c echo.Context) error {
	var req session.ExchangeRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "corpo inválido")
	}
	req.SessionID = c.Param("id")

	resp, err := s.manager.Exchange(c.Request().Context(), req)
	if err != nil {
		return chatError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// chatError keeps client-visible messages generic; backend detail stays in
// the server log.
func chatError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrBusy):
		return fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, llm.ErrAuth):
		return fail(c, http.StatusUnauthorized, "falha na autenticação")
	case errors.Is(err, llm.ErrRateLimited):
		return fail(c, http.StatusTooManyRequests, "limite de requisições excedido")
	case errors.Is(err, llm.ErrQuota):
		return fail(c, http.StatusPaymentRequired, "créditos insuficientes")
	case errors.Is(err, llm.ErrUnavailable):
		return fail(c, http.StatusBadGateway, "erro no serviço de IA")
	}
	return fail(c, http.StatusBadRequest, err.Error())
}
