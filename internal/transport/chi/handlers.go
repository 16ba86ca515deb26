package chi

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bokjinpyeong/my-data-reflection/internal/domain/record"
	"github.com/bokjinpyeong/my-data-reflection/internal/domain/weights"
	"github.com/bokjinpyeong/my-data-reflection/internal/metrics"
	archiveuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/archive"
	snapshotuc "github.com/bokjinpyeong/my-data-reflection/internal/usecase/snapshot"
)

// weightParamPrefix marks query parameters carrying feature weights,
// e.g. ?w_achievement=2&w_interest=1&w_tag:algorithms=0.5
const weightParamPrefix = "w_"

// --- DTOs ---

type createRecordRequest struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Achievement *float64 `json:"achievement"`
	Interest    *float64 `json:"interest"`
	Tags        []string `json:"tags"`
	FreeText    string   `json:"free_text"`
	Notes       string   `json:"notes"`
}

type recordResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Category    string    `json:"category,omitempty"`
	Achievement *float64  `json:"achievement,omitempty"`
	Interest    *float64  `json:"interest,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	FreeText    string    `json:"free_text,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type snapshotResponse struct {
	SnapshotID string              `json:"snapshot_id"`
	Population int                 `json:"population"`
	Dimensions int                 `json:"dimensions"`
	Vocabulary []string            `json:"vocabulary,omitempty"`
	Schema     []componentResponse `json:"schema"`
}

type componentResponse struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
}

type rankingEntryResponse struct {
	Position int     `json:"position"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Score    float64 `json:"score"`
}

type rankingResponse struct {
	SnapshotID string                 `json:"snapshot_id"`
	Weights    map[string]float64     `json:"weights"`
	Entries    []rankingEntryResponse `json:"entries"`
}

type neighborEntryResponse struct {
	Rank     int     `json:"rank"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Distance float64 `json:"distance"`
}

type neighborsResponse struct {
	SnapshotID string                  `json:"snapshot_id"`
	Metric     string                  `json:"metric"`
	QueryID    string                  `json:"query_id"`
	K          int                     `json:"k"`
	Neighbors  []neighborEntryResponse `json:"neighbors"`
}

func toRecordResponse(r *record.Record) recordResponse {
	return recordResponse{
		ID:          r.ID(),
		Name:        r.Name(),
		Type:        string(r.RecordType()),
		Category:    r.Category(),
		Achievement: optionalScore(r.Achievement()),
		Interest:    optionalScore(r.Interest()),
		Tags:        r.Tags(),
		CreatedAt:   r.CreatedAt(),
		FreeText:    r.FreeText(),
		Notes:       r.Notes(),
	}
}

func optionalScore(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// --- Record handlers ---

// CreateRecord handles POST /records.
func (s *Server) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	t := record.Type(req.Type)
	if !t.IsValid() {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid record type %q", req.Type))
		return
	}

	rec, err := s.archive.Create(r.Context(), archiveuc.CreateInput{
		Name:        req.Name,
		Type:        t,
		Category:    req.Category,
		Achievement: req.Achievement,
		Interest:    req.Interest,
		Tags:        req.Tags,
		FreeText:    req.FreeText,
		Notes:       req.Notes,
	})
	if err != nil {
		s.handleError(w, err, "failed to create record")
		return
	}
	writeJSON(w, http.StatusCreated, toRecordResponse(&rec))
}

// ListRecords handles GET /records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.archive.List(r.Context())
	if err != nil {
		s.handleError(w, err, "failed to list records")
		return
	}
	out := make([]recordResponse, 0, len(records))
	for i := range records {
		out = append(out, toRecordResponse(&records[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": out, "count": len(out)})
}

// GetRecord handles GET /records/{id}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleError(w, err, "failed to get record")
		return
	}
	writeJSON(w, http.StatusOK, toRecordResponse(&rec))
}

// DeleteRecord handles DELETE /records/{id}.
func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.archive.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, err, "failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Snapshot handlers ---

// Refit handles POST /refit, the explicit invalidation entry point.
func (s *Server) Refit(w http.ResponseWriter, r *http.Request) {
	view, err := s.snapshots.Refit(r.Context())
	if err != nil {
		s.handleError(w, err, "failed to refit")
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(view))
}

// SnapshotInfo handles GET /snapshot.
func (s *Server) SnapshotInfo(w http.ResponseWriter, _ *http.Request) {
	view, err := s.snapshots.Current()
	if err != nil {
		s.handleError(w, err, "no fitted snapshot")
		return
	}
	writeJSON(w, http.StatusOK, toSnapshotResponse(view))
}

func toSnapshotResponse(view *snapshotuc.View) snapshotResponse {
	schema := view.VectorSchema()
	components := make([]componentResponse, 0, schema.Len())
	for i := 0; i < schema.Len(); i++ {
		c := schema.Component(i)
		components = append(components, componentResponse{
			Source: c.Source(),
			Kind:   string(c.EncodingKind()),
		})
	}
	return snapshotResponse{
		SnapshotID: view.SnapshotID(),
		Population: view.Size(),
		Dimensions: schema.Len(),
		Vocabulary: view.Vocabulary(),
		Schema:     components,
	}
}

// --- Ranking handler ---

// Ranking handles GET /ranking. Feature weights come from w_-prefixed query
// parameters; with none supplied the default config applies.
func (s *Server) Ranking(w http.ResponseWriter, r *http.Request) {
	cfg, raw, err := parseWeights(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	view, err := s.snapshots.Current()
	if err != nil {
		s.handleError(w, err, "no fitted snapshot")
		return
	}

	entries, err := s.ranking.Rank(view.Vectors(), cfg)
	if err != nil {
		s.handleError(w, err, "failed to rank")
		return
	}
	metrics.IncRanking()

	out := make([]rankingEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		resp := rankingEntryResponse{Position: e.Position(), ID: e.RecordID(), Score: e.Score()}
		if rec, ok := view.Record(e.RecordID()); ok {
			resp.Name = rec.Name()
			resp.Type = string(rec.RecordType())
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, rankingResponse{
		SnapshotID: view.SnapshotID(),
		Weights:    raw,
		Entries:    out,
	})
}

// parseWeights extracts a weight config from w_-prefixed query parameters.
func parseWeights(query map[string][]string) (weights.Config, map[string]float64, error) {
	raw := make(map[string]float64)
	for key, vals := range query {
		if !strings.HasPrefix(key, weightParamPrefix) || len(vals) == 0 {
			continue
		}
		feature := key[len(weightParamPrefix):]
		v, err := strconv.ParseFloat(vals[0], 64)
		if err != nil {
			return weights.Config{}, nil, fmt.Errorf("invalid weight %q for %q", vals[0], feature)
		}
		raw[feature] = v
	}
	if len(raw) == 0 {
		cfg := weights.Default()
		out := make(map[string]float64)
		for _, name := range cfg.Features() {
			v, _ := cfg.Weight(name)
			out[name] = v
		}
		return cfg, out, nil
	}
	cfg, err := weights.New(raw)
	if err != nil {
		return weights.Config{}, nil, err
	}
	return cfg, raw, nil
}

// --- Similarity handler ---

// Neighbors handles GET /records/{id}/neighbors.
func (s *Server) Neighbors(w http.ResponseWriter, r *http.Request) {
	queryID := chi.URLParam(r, "id")

	k := s.limits.DefaultK
	if raw := r.URL.Query().Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid k %q", raw))
			return
		}
		k = parsed
	}
	if k <= 0 || k > s.limits.MaxK {
		writeError(w, http.StatusBadRequest, CodeBadRequest,
			fmt.Sprintf("k must be between 1 and %d, got %d", s.limits.MaxK, k))
		return
	}

	view, err := s.snapshots.Current()
	if err != nil {
		s.handleError(w, err, "no fitted snapshot")
		return
	}

	// A session that pinned a snapshot must not silently read a newer one.
	if pinned := r.URL.Query().Get("snapshot"); pinned != "" && pinned != view.SnapshotID() {
		writeError(w, http.StatusConflict, CodeStaleEncoding,
			fmt.Sprintf("snapshot %s is no longer current (current: %s), refit and retry", pinned, view.SnapshotID()))
		return
	}

	neighbors, err := s.similarity.Neighbors(view.Vectors(), queryID, k)
	if err != nil {
		s.handleError(w, err, "failed to find neighbors")
		return
	}
	metrics.IncNeighborQuery(string(s.similarity.MetricName()))

	out := make([]neighborEntryResponse, 0, len(neighbors))
	for i := range neighbors {
		n := &neighbors[i]
		resp := neighborEntryResponse{Rank: n.Rank(), ID: n.RecordID(), Distance: n.Distance()}
		if rec, ok := view.Record(n.RecordID()); ok {
			resp.Name = rec.Name()
			resp.Type = string(rec.RecordType())
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, neighborsResponse{
		SnapshotID: view.SnapshotID(),
		Metric:     string(s.similarity.MetricName()),
		QueryID:    queryID,
		K:          k,
		Neighbors:  out,
	})
}

// --- Insight handlers ---

// Keywords handles GET /insights/keywords.
func (s *Server) Keywords(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	keywords, err := s.insights.Keywords(r.Context(), limit)
	if err != nil {
		s.handleError(w, err, "failed to count keywords")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keywords": keywords})
}

// Distribution handles GET /insights/distribution.
func (s *Server) Distribution(w http.ResponseWriter, r *http.Request) {
	dist, err := s.insights.Distribution(r.Context())
	if err != nil {
		s.handleError(w, err, "failed to compute distribution")
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

// --- Export handler ---

// Export handles GET /export/{type}, streaming a CSV backup.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	t := record.Type(chi.URLParam(r, "type"))
	if !t.IsValid() {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("invalid record type %q", t))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s_%s.csv", t, time.Now().UTC().Format("20060102")))

	if err := s.archive.ExportCSV(r.Context(), t, w); err != nil {
		// Headers already sent; log and abort the stream.
		s.logger.Error("csv export failed", zap.Error(err))
	}
}

// --- Health handler ---

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"status": report.Status, "checks": report.Checks})
}
