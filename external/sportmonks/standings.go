package sportmonks

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

// standingRow accumulates one team's metrics while details of differing priority are applied.
type standingRow struct {
	participantID int64
	team          string
	position      int
	played        int
	won           int
	draw          int
	lost          int
	goalsFor      int
	goalsAgainst  int
	goalDiff      int
	points        int
	form          string
	seen          map[string]bool
}

func (c *Client) Normalize(payload []byte) (standings.Result, error) {
	return Normalize(payload)
}

func Normalize(payload []byte) (standings.Result, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return standings.Result{}, crerr.Wrap(usecase.ErrMalformedResponse, "sportmonks returned an empty body")
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(payload, &envelope); err != nil {
		return standings.Result{}, crerr.Wrapf(usecase.ErrMalformedResponse, "sportmonks decode payload: %v", err)
	}
	data, ok := envelope["data"]
	if !ok || data == nil {
		return standings.Result{}, crerr.Wrapf(usecase.ErrMalformedResponse, "sportmonks payload has no data message=%s", getString(envelope, "message"))
	}

	rows := parseStandings(collectStandingRows(data))
	if len(rows) == 0 {
		return standings.Result{}, crerr.Wrap(usecase.ErrEmptyStandings, "sportmonks returned no standing rows")
	}

	out := standings.Result{Standings: make([]standings.Record, 0, len(rows))}
	for _, row := range rows {
		var goalsFor, goalsAgainst, goalDiff *int
		if row.seen["goals_for"] {
			goalsFor = ptrInt(row.goalsFor)
		}
		if row.seen["goals_against"] {
			goalsAgainst = ptrInt(row.goalsAgainst)
		}
		if row.seen["goal_difference"] {
			goalDiff = ptrInt(row.goalDiff)
		}
		out.Standings = append(out.Standings, standings.NewRecord(
			row.position, row.team,
			row.played, row.won, row.draw, row.lost, row.points,
			goalDiff, goalsFor, goalsAgainst, row.form,
		))
	}
	return out, nil
}

func parseStandings(items []map[string]any) []standingRow {
	out := make([]standingRow, 0, len(items))
	for _, item := range items {
		participant := relationDataMap(item["participant"])
		row := standingRow{
			participantID: participantIDOf(item),
			team:          strings.TrimSpace(getString(participant, "name")),
			position:      positionOf(item),
			seen:          make(map[string]bool, 8),
		}
		if row.team == "" {
			row.team = strconv.FormatInt(row.participantID, 10)
		}

		for metric, keys := range directMetricKeys {
			if value, ok := getIntAny(item, keys...); ok {
				setStandingMetricValue(&row, metric, value)
				row.seen[metric] = true
			}
		}

		detailPriority := make(map[string]int, 8)
		for _, detail := range extractStandingDetails(item["details"]) {
			applyStandingDetail(&row, detailPriority, detail)
		}

		totalMatches := row.won + row.draw + row.lost
		if row.played <= 0 && totalMatches > 0 {
			row.played = totalMatches
		}
		if row.played > 0 && totalMatches > 0 && row.played != totalMatches {
			// Details sometimes carry home/away aggregates; keep the row internally consistent.
			row.played = totalMatches
		}

		row.form = parseStandingForm(item["form"])
		if row.position <= 0 || row.participantID <= 0 {
			continue
		}
		out = append(out, row)
	}

	return out
}

var directMetricKeys = map[string][]string{
	"played":          {"played", "matches_played", "games_played"},
	"won":             {"won", "wins"},
	"draw":            {"draw", "draws", "drawn"},
	"lost":            {"lost", "losses", "defeats"},
	"goals_for":       {"goals_for", "goals_scored"},
	"goals_against":   {"goals_against", "goals_conceded"},
	"goal_difference": {"goal_difference"},
	"points":          {"points"},
}

func participantIDOf(item map[string]any) int64 {
	for _, key := range []string{"participant_id", "team_id", "participant"} {
		if id := getInt64(item, key); id > 0 {
			return id
		}
	}
	return getInt64(relationDataMap(item["participant"]), "id")
}

func positionOf(item map[string]any) int {
	if position := int(getInt64(item, "position")); position > 0 {
		return position
	}
	return int(getInt64(item, "rank"))
}

func extractStandingDetails(raw any) []map[string]any {
	switch typed := raw.(type) {
	case nil:
		return nil
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, row)
		}
		return out
	case map[string]any:
		if nested, ok := typed["data"]; ok {
			return extractStandingDetails(nested)
		}
		return []map[string]any{typed}
	default:
		return nil
	}
}

// collectStandingRows returns the rows of the first group found depth first.
// A group is the first array holding standing rows directly; within it, rows are
// further split by stage_id and group_id so flat multi-group payloads keep one table.
func collectStandingRows(node any) []map[string]any {
	var group []map[string]any

	var walk func(any, int) bool
	walk = func(current any, depth int) bool {
		if depth > 10 || current == nil {
			return false
		}

		switch typed := current.(type) {
		case []any:
			for _, child := range typed {
				if item, ok := child.(map[string]any); ok && isStandingRow(item) {
					group = append(group, item)
				}
			}
			if len(group) > 0 {
				return true
			}
			for _, child := range typed {
				if walk(child, depth+1) {
					return true
				}
			}
		case map[string]any:
			if isStandingRow(typed) {
				group = append(group, typed)
				return true
			}
			for _, key := range []string{"data", "standings", "table", "rows", "items"} {
				if child, ok := typed[key]; ok && walk(child, depth+1) {
					return true
				}
			}
		}
		return false
	}

	if !walk(node, 0) {
		return nil
	}

	out := make([]map[string]any, 0, len(group))
	seen := make(map[string]struct{}, len(group))
	firstGroup := standingGroupKey(group[0])
	for _, item := range group {
		if standingGroupKey(item) != firstGroup {
			continue
		}
		key := standingRowDedupKey(item)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}

func standingGroupKey(item map[string]any) string {
	return fmt.Sprintf("%d:%d", getInt64(item, "stage_id"), getInt64(item, "group_id"))
}

func isStandingRow(item map[string]any) bool {
	return item != nil && positionOf(item) > 0 && participantIDOf(item) > 0
}

func standingRowDedupKey(item map[string]any) string {
	return fmt.Sprintf("%d:%d:%d", participantIDOf(item), positionOf(item), getInt64(item, "points"))
}

var standingMetricTypeByID = map[int64]string{
	117: "goals_for",
	118: "goals_against",
	119: "played",
	120: "played",
	121: "won",
	122: "won",
	123: "draw",
	124: "draw",
	125: "lost",
	126: "lost",
	127: "points",
	128: "points",
	129: "played",
	130: "won",
	131: "draw",
	132: "lost",
	133: "goals_for",
	134: "goals_against",
	179: "goal_difference",
	187: "points",
}

func applyStandingDetail(row *standingRow, priorityByMetric map[string]int, detail map[string]any) {
	if row == nil {
		return
	}

	typeInfo := relationDataMap(detail["type"])
	candidate := normalizeStandingDetailType(firstNonEmpty(
		getString(typeInfo, "developer_name"),
		getString(typeInfo, "code"),
		getString(typeInfo, "name"),
	))
	if candidate == "" {
		candidate = normalizeStandingDetailType(getString(detail, "type"))
	}
	if strings.Contains(candidate, "percentage") || strings.Contains(candidate, "percent") || strings.Contains(candidate, "rate") {
		return
	}
	typeID := getInt64(detail, "type_id")
	if typeID <= 0 {
		typeID = getInt64(typeInfo, "id")
	}

	value := detail["value"]
	if value == nil {
		value = detail["total"]
	}
	numeric, ok := extractStandingValue(value)
	if !ok {
		return
	}

	metric, ok := standingMetricFromType(typeID, candidate)
	if !ok {
		return
	}
	setStandingMetric(row, priorityByMetric, metric, numeric, standingMetricPriority(typeID, candidate))
}

func normalizeStandingDetailType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	raw = strings.ReplaceAll(raw, "_", " ")
	raw = strings.ReplaceAll(raw, "-", " ")
	return strings.Join(strings.Fields(raw), " ")
}

func standingMetricFromType(typeID int64, candidate string) (string, bool) {
	if metric, ok := standingMetricTypeByID[typeID]; ok {
		return metric, true
	}
	if candidate == "" {
		return "", false
	}
	switch {
	case strings.Contains(candidate, "goal difference"):
		return "goal_difference", true
	case strings.Contains(candidate, "goals against") || strings.Contains(candidate, "conceded"):
		return "goals_against", true
	case strings.Contains(candidate, "goals for") || strings.Contains(candidate, "goals scored"):
		return "goals_for", true
	case strings.Contains(candidate, "matches played") || strings.Contains(candidate, "games played"):
		return "played", true
	case candidate == "played" || candidate == "matches" || candidate == "games":
		return "played", true
	case strings.Contains(candidate, "won") || candidate == "wins" || candidate == "win":
		return "won", true
	case strings.Contains(candidate, "drawn") || strings.HasSuffix(candidate, "draw") || candidate == "draws":
		return "draw", true
	case strings.Contains(candidate, "lost") || candidate == "losses" || candidate == "defeats":
		return "lost", true
	case strings.HasSuffix(candidate, "points") || candidate == "point":
		return "points", true
	default:
		return "", false
	}
}

// standingMetricPriority ranks overall figures above unlabelled ones, and those above home/away splits.
func standingMetricPriority(typeID int64, candidate string) int {
	switch typeID {
	case 129, 130, 131, 132, 133, 134, 179, 187:
		return 3
	case 117, 118, 119, 120, 121, 122, 123, 124, 125, 126, 127, 128:
		return 1
	}
	if strings.Contains(candidate, "overall") || strings.Contains(candidate, "total") || strings.Contains(candidate, "all") {
		return 3
	}
	if strings.Contains(candidate, "home") || strings.Contains(candidate, "away") {
		return 1
	}
	return 2
}

func setStandingMetric(row *standingRow, priorityByMetric map[string]int, metric string, value int, priority int) {
	currentPriority, ok := priorityByMetric[metric]
	switch {
	case !ok, priority > currentPriority:
		priorityByMetric[metric] = priority
	case priority < currentPriority:
		return
	case !shouldReplaceStandingMetricValue(metric, getStandingMetricValue(row, metric), value):
		return
	}
	setStandingMetricValue(row, metric, value)
	row.seen[metric] = true
}

func getStandingMetricValue(row *standingRow, metric string) int {
	switch metric {
	case "played":
		return row.played
	case "won":
		return row.won
	case "draw":
		return row.draw
	case "lost":
		return row.lost
	case "goals_for":
		return row.goalsFor
	case "goals_against":
		return row.goalsAgainst
	case "goal_difference":
		return row.goalDiff
	case "points":
		return row.points
	default:
		return 0
	}
}

func setStandingMetricValue(row *standingRow, metric string, value int) {
	switch metric {
	case "played":
		row.played = value
	case "won":
		row.won = value
	case "draw":
		row.draw = value
	case "lost":
		row.lost = value
	case "goals_for":
		row.goalsFor = value
	case "goals_against":
		row.goalsAgainst = value
	case "goal_difference":
		row.goalDiff = value
	case "points":
		row.points = value
	}
}

func shouldReplaceStandingMetricValue(metric string, current, incoming int) bool {
	if incoming == current {
		return false
	}
	if metric == "goal_difference" {
		return absInt(incoming) > absInt(current)
	}
	return incoming > current
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func parseStandingForm(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.ToUpper(strings.TrimSpace(typed))
	case map[string]any:
		if nested, ok := typed["data"]; ok {
			return parseStandingForm(nested)
		}
		return strings.ToUpper(firstNonEmpty(
			getString(typed, "form"),
			getString(typed, "result"),
			getString(typed, "value"),
		))
	case []any:
		var b strings.Builder
		for _, raw := range typed {
			row, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			b.WriteString(strings.ToUpper(firstNonEmpty(
				getString(row, "form"),
				getString(row, "result"),
				getString(row, "value"),
			)))
		}
		return b.String()
	default:
		return ""
	}
}
