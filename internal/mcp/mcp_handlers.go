package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/insight/core"
	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/internal/service"
	"github.com/huangsam/insight/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	svc *service.Services
}

// typeCatalogue is the payload of list_analysis_types.
type typeCatalogue struct {
	AnalysisTypes []schema.AnalysisType         `json:"analysis_types"`
	ReportTypes   map[schema.ReportType][]string `json:"report_types"`
}

func (h *toolHandler) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, err := parametersArgument(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid analysis parameters: %v", err)), nil
	}
	tr, err := contract.ParseTimeRange(request.GetString("start", ""), request.GetString("end", ""), time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid time range: %v", err)), nil
	}
	req := schema.AnalysisRequest{
		Type:       schema.AnalysisType(request.GetString("type", "")),
		DataSource: request.GetString("data_source", ""),
		Parameters: params,
		TimeRange:  tr,
		Limit:      request.GetInt("limit", 0),
	}
	if req.Type == "" {
		return mcp.NewToolResultError("type is required"), nil
	}

	result, err := h.svc.Analyze(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGenerateReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportType := schema.ReportType(request.GetString("report_type", ""))
	if reportType == "" {
		return mcp.NewToolResultError("report_type is required"), nil
	}
	params, err := parametersArgument(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	report, err := h.svc.GenerateReport(ctx, reportType, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report generation failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleAsk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(request.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}
	return jsonResult(h.svc.ProcessQuery(ctx, query))
}

func (h *toolHandler) handleRiskScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := employeeIDArgument(request)
	if errResult != nil {
		return errResult, nil
	}
	assessment := h.svc.CalculateRiskScore(ctx, id)
	return jsonResult(struct {
		schema.RiskAssessment
		Label string `json:"label"`
	}{assessment, contract.GetPlainLabel(float64(assessment.Score))})
}

func (h *toolHandler) handleRiskTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := employeeIDArgument(request)
	if errResult != nil {
		return errResult, nil
	}
	months := request.GetInt("months", 0)
	if months < 0 {
		return mcp.NewToolResultError("months must be positive"), nil
	}
	if months > schema.MaxForecastPeriods {
		return mcp.NewToolResultError(fmt.Sprintf("months must be at most %d", schema.MaxForecastPeriods)), nil
	}

	prediction, err := h.svc.PredictRiskTrend(ctx, id, months)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("risk trend failed: %v", err)), nil
	}
	return jsonResult(prediction)
}

func (h *toolHandler) handleRiskRecommendations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := employeeIDArgument(request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(h.svc.GenerateRetentionRecommendations(ctx, id))
}

func (h *toolHandler) handleListTypes(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalogue := typeCatalogue{
		AnalysisTypes: core.SupportedTypes(),
		ReportTypes:   map[schema.ReportType][]string{},
	}
	for _, name := range reportTypeNames() {
		rt := schema.ReportType(name)
		titles, err := core.SectionTitles(rt)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		catalogue.ReportTypes[rt] = titles
	}
	return jsonResult(catalogue)
}

func employeeIDArgument(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := strings.TrimSpace(request.GetString("employee_id", ""))
	if id == "" {
		return "", mcp.NewToolResultError("employee_id is required")
	}
	return id, nil
}

// parametersArgument reads the optional parameters object. A JSON-encoded string is also accepted.
func parametersArgument(request mcp.CallToolRequest) (schema.Params, error) {
	switch v := request.GetArguments()["parameters"].(type) {
	case nil:
		return schema.Params{}, nil
	case map[string]any:
		return schema.Params(v).Clone(), nil
	case string:
		params := schema.Params{}
		if strings.TrimSpace(v) == "" {
			return params, nil
		}
		if err := json.Unmarshal([]byte(v), &params); err != nil {
			return nil, fmt.Errorf("parameters must be a JSON object: %w", err)
		}
		return params, nil
	default:
		return nil, fmt.Errorf("parameters must be an object, got %T", v)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
