// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/insight/internal/service"
	"github.com/huangsam/insight/schema"
)

func analysisTypeNames() []string {
	return []string{
		string(schema.TrendAnalysis), string(schema.AnomalyAnalysis), string(schema.CorrelationAnalysis),
		string(schema.PredictionAnalysis), string(schema.RecommendationAnalysis), string(schema.SegmentationAnalysis),
	}
}

func reportTypeNames() []string {
	return []string{
		string(schema.WorkforceReport), string(schema.PerformanceReport), string(schema.RetentionReport),
		string(schema.RecruitmentReport), string(schema.CompensationReport), string(schema.LearningReport),
	}
}

// NewMCPServer initializes and configures the Insight MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(svc *service.Services) *server.MCPServer {
	s := server.NewMCPServer(
		"Insight Analytics Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{svc: svc}

	// --- 1. Tool: analyze ---
	s.AddTool(mcp.NewTool("analyze",
		mcp.WithDescription("Run one analysis (trend, anomaly, correlation, prediction, recommendation, segmentation) over a data table."),
		mcp.WithString("type", mcp.Description("Analysis type."), mcp.Required(), mcp.Enum(analysisTypeNames()...)),
		mcp.WithString("data_source", mcp.Description("Table to analyze (e.g., 'turnover', 'employees'). Not needed for recommendations.")),
		mcp.WithObject("parameters", mcp.Description("Analysis parameters such as valueField, timeField, threshold, periods, segmentBy, metrics, scenario.")),
		mcp.WithString("start", mcp.Description("Start of the time range (YYYY-MM-DD or RFC3339).")),
		mcp.WithString("end", mcp.Description("End of the time range (YYYY-MM-DD or RFC3339). Defaults to now when start is set.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows to read.")),
	), h.handleAnalyze)

	// --- 2. Tool: generate_report ---
	s.AddTool(mcp.NewTool("generate_report",
		mcp.WithDescription("Generate a multi-section business report."),
		mcp.WithString("report_type", mcp.Description("Report type."), mcp.Required(), mcp.Enum(reportTypeNames()...)),
		mcp.WithObject("parameters", mcp.Description("Parameters forwarded to every section analysis (e.g., department).")),
	), h.handleGenerateReport)

	// --- 3. Tool: ask ---
	s.AddTool(mcp.NewTool("ask",
		mcp.WithDescription("Answer a natural-language business question (Chinese or English)."),
		mcp.WithString("query", mcp.Description("The question, e.g. '销售部过去6个月的离职率趋势'."), mcp.Required()),
	), h.handleAsk)

	// --- 4. Tool: risk_score ---
	s.AddTool(mcp.NewTool("risk_score",
		mcp.WithDescription("Compute the 0-100 attrition risk score of an employee with its factor breakdown."),
		mcp.WithString("employee_id", mcp.Description("Employee identifier."), mcp.Required()),
	), h.handleRiskScore)

	// --- 5. Tool: risk_trend ---
	s.AddTool(mcp.NewTool("risk_trend",
		mcp.WithDescription("Forecast the monthly risk score of an employee."),
		mcp.WithString("employee_id", mcp.Description("Employee identifier."), mcp.Required()),
		mcp.WithNumber("months", mcp.Description("Number of months to forecast. Defaults to 6.")),
	), h.handleRiskTrend)

	// --- 6. Tool: risk_recommendations ---
	s.AddTool(mcp.NewTool("risk_recommendations",
		mcp.WithDescription("List ranked retention actions for an employee."),
		mcp.WithString("employee_id", mcp.Description("Employee identifier."), mcp.Required()),
	), h.handleRiskRecommendations)

	// --- 7. Tool: list_analysis_types ---
	s.AddTool(mcp.NewTool("list_analysis_types",
		mcp.WithDescription("List the supported analysis and report types."),
	), h.handleListTypes)

	return s
}

// StartMCPServer starts the Insight MCP server.
func StartMCPServer(_ context.Context, svc *service.Services) error {
	s := NewMCPServer(svc)
	return server.ServeStdio(s)
}
