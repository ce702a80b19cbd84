package category

import "sort"

// domains groups categories for routing decisions. A category belongs to at
// most one domain.
var domains = map[string][]string{
	"business_operations": {
		"operations_report", "kpi_dashboard", "performance_review",
		"inventory_management", "supply_chain", "production_schedule",
		"quality_control", "project_management", "business_strategy",
		"meeting_minutes", "organizational_chart", "process_documentation",
		"standard_operating_procedure", "compliance_report", "vendor_management",
	},
	"financial": {
		"invoice", "receipt", "purchase_order", "budget", "expense_report",
		"profit_loss", "balance_sheet", "cash_flow", "tax_document",
		"audit_report", "financial_forecast", "investment_report",
		"bank_statement", "payroll", "financial_contract",
	},
	"legal": {
		"legal_contract", "nda", "terms_conditions", "privacy_policy",
		"regulatory_filing", "court_document", "patent", "trademark",
		"license_agreement", "legal_brief", "power_of_attorney",
		"corporate_governance",
	},
	"hr": {
		"employee_record", "resume_cv", "job_description",
		"performance_evaluation", "training_material", "onboarding_document",
		"benefits_summary", "disciplinary_record", "termination_letter",
		"salary_structure", "leave_request", "employee_handbook",
	},
	"marketing_sales": {
		"marketing_campaign", "brand_guidelines", "market_research",
		"competitive_analysis", "sales_report", "customer_feedback",
		"lead_generation", "advertising_content", "social_media_analytics",
		"product_catalog", "customer_segmentation", "crm_data",
	},
	"technical": {
		"technical_specification", "api_documentation", "system_architecture",
		"user_manual", "installation_guide", "troubleshooting_guide",
		"software_requirements", "network_diagram", "security_policy",
		"data_dictionary", "release_notes", "technical_report",
	},
	"research": {
		"research_paper", "thesis", "literature_review", "case_study",
		"scientific_report", "experimental_data", "survey_results",
		"statistical_analysis", "whitepaper", "conference_proceedings",
	},
	"communications": {
		"official_letter", "memo", "email_correspondence", "press_release",
		"newsletter", "announcement", "circular", "notification",
		"invitation", "thank_you_letter",
	},
	"intelligence_security": {
		"threat_assessment", "security_report", "surveillance_report",
		"risk_analysis", "geopolitical_brief", "incident_report",
		"background_check", "intelligence_summary", "situation_report",
		"vulnerability_assessment", "osint_report", "classified_document",
	},
}

var (
	domainByCategory map[string]string
	namesSorted      []string
)

func init() {
	domainByCategory = make(map[string]string, len(Registry))
	for domain, cats := range domains {
		for _, cat := range cats {
			domainByCategory[cat] = domain
		}
	}

	namesSorted = make([]string, 0, len(Registry))
	for name := range Registry {
		namesSorted = append(namesSorted, name)
	}
	sort.Strings(namesSorted)
}

// Domain returns the domain grouping a category belongs to, or "" if none.
func Domain(cat string) string {
	return domainByCategory[cat]
}

// PipelineFor names the downstream pipeline for a classified category.
func PipelineFor(cat string) string {
	if domain := Domain(cat); domain != "" {
		return domain + "_pipeline"
	}
	if cat == Unclassified {
		return "human_review_pipeline"
	}
	return "generic_pipeline"
}
