package category

// aliases maps common variations seen in model output to canonical names.
var aliases = map[string]string{
	// Business & operations
	"operations":       "operations_report",
	"operational":      "operations_report",
	"ops":              "operations_report",
	"operation":        "operations_report",
	"ops_report":       "operations_report",
	"kpi":              "kpi_dashboard",
	"kpis":             "kpi_dashboard",
	"dashboard":        "kpi_dashboard",
	"metrics":          "kpi_dashboard",
	"performance":      "performance_review",
	"review":           "performance_review",
	"inventory":        "inventory_management",
	"stock":            "inventory_management",
	"warehouse":        "inventory_management",
	"supply":           "supply_chain",
	"logistics":        "supply_chain",
	"shipping":         "supply_chain",
	"procurement":      "supply_chain",
	"production":       "production_schedule",
	"manufacturing":    "production_schedule",
	"schedule":         "production_schedule",
	"quality":          "quality_control",
	"qa":               "quality_control",
	"qc":               "quality_control",
	"inspection":       "quality_control",
	"project":          "project_management",
	"project_plan":     "project_management",
	"timeline":         "project_management",
	"milestone":        "project_management",
	"strategy":         "business_strategy",
	"strategic":        "business_strategy",
	"vision":           "business_strategy",
	"meeting":          "meeting_minutes",
	"minutes":          "meeting_minutes",
	"board_meeting":    "meeting_minutes",
	"org_chart":        "organizational_chart",
	"hierarchy":        "organizational_chart",
	"structure":        "organizational_chart",
	"process":          "process_documentation",
	"workflow":         "process_documentation",
	"procedure":        "standard_operating_procedure",
	"sop":              "standard_operating_procedure",
	"work_instruction": "standard_operating_procedure",
	"compliance":       "compliance_report",
	"regulatory":       "compliance_report",
	"vendor":           "vendor_management",
	"supplier":         "vendor_management",

	// Financial
	"invoices":             "invoice",
	"billing":              "invoice",
	"bill":                 "invoice",
	"receipts":             "receipt",
	"payment_confirmation": "receipt",
	"po":                   "purchase_order",
	"purchase":             "purchase_order",
	"requisition":          "purchase_order",
	"budgets":              "budget",
	"budget_plan":          "budget",
	"spending":             "budget",
	"expense":              "expense_report",
	"expenses":             "expense_report",
	"reimbursement":        "expense_report",
	"pnl":                  "profit_loss",
	"profit_and_loss":      "profit_loss",
	"income_statement":     "profit_loss",
	"earnings":             "profit_loss",
	"balance":              "balance_sheet",
	"assets_liabilities":   "balance_sheet",
	"cashflow":             "cash_flow",
	"liquidity":            "cash_flow",
	"tax":                  "tax_document",
	"taxes":                "tax_document",
	"tax_return":           "tax_document",
	"audit":                "audit_report",
	"auditing":             "audit_report",
	"forecast":             "financial_forecast",
	"projection":           "financial_forecast",
	"investment":           "investment_report",
	"portfolio":            "investment_report",
	"bank":                 "bank_statement",
	"account_statement":    "bank_statement",
	"salary":               "payroll",
	"wages":                "payroll",
	"compensation":         "payroll",
	"pay":                  "payroll",
	"loan":                 "financial_contract",
	"credit":               "financial_contract",
	"finance":              "financial_contract",
	"financial":            "financial_contract",

	// Legal & regulatory
	"contract":              "legal_contract",
	"contracts":             "legal_contract",
	"agreement":             "legal_contract",
	"legal":                 "legal_contract",
	"confidentiality":       "nda",
	"non_disclosure":        "nda",
	"secrecy":               "nda",
	"terms":                 "terms_conditions",
	"conditions":            "terms_conditions",
	"tos":                   "terms_conditions",
	"privacy":               "privacy_policy",
	"gdpr":                  "privacy_policy",
	"data_protection":       "privacy_policy",
	"filing":                "regulatory_filing",
	"government_filing":     "regulatory_filing",
	"court":                 "court_document",
	"lawsuit":               "court_document",
	"judgment":              "court_document",
	"legal_filing":          "court_document",
	"patents":               "patent",
	"ip":                    "patent",
	"intellectual_property": "patent",
	"trademarks":            "trademark",
	"brand_protection":      "trademark",
	"license":               "license_agreement",
	"licensing":             "license_agreement",
	"brief":                 "legal_brief",
	"memorandum":            "legal_brief",
	"poa":                   "power_of_attorney",
	"proxy":                 "power_of_attorney",
	"authorization":         "power_of_attorney",
	"governance":            "corporate_governance",
	"bylaws":                "corporate_governance",
	"resolution":            "corporate_governance",

	// Human resources
	"employee":          "employee_record",
	"personnel":         "employee_record",
	"hr_record":         "employee_record",
	"resume":            "resume_cv",
	"cv":                "resume_cv",
	"curriculum_vitae":  "resume_cv",
	"job_application":   "resume_cv",
	"job":               "job_description",
	"position":          "job_description",
	"role":              "job_description",
	"posting":           "job_description",
	"appraisal":         "performance_evaluation",
	"evaluation":        "performance_evaluation",
	"feedback":          "performance_evaluation",
	"training":          "training_material",
	"learning":          "training_material",
	"course":            "training_material",
	"onboarding":        "onboarding_document",
	"new_hire":          "onboarding_document",
	"orientation":       "onboarding_document",
	"benefits":          "benefits_summary",
	"insurance":         "benefits_summary",
	"retirement":        "benefits_summary",
	"disciplinary":      "disciplinary_record",
	"warning":           "disciplinary_record",
	"corrective_action": "disciplinary_record",
	"termination":       "termination_letter",
	"dismissal":         "termination_letter",
	"resignation":       "termination_letter",
	"salary_band":       "salary_structure",
	"pay_grade":         "salary_structure",
	"leave":             "leave_request",
	"vacation":          "leave_request",
	"time_off":          "leave_request",
	"handbook":          "employee_handbook",
	"policy":            "employee_handbook",
	"workplace_rules":   "employee_handbook",

	// Marketing & sales
	"campaign":        "marketing_campaign",
	"marketing":       "marketing_campaign",
	"promotion":       "marketing_campaign",
	"brand":           "brand_guidelines",
	"branding":        "brand_guidelines",
	"visual_identity": "brand_guidelines",
	"market":          "market_research",
	"consumer":        "market_research",
	"competitor":      "competitive_analysis",
	"benchmarking":    "competitive_analysis",
	"sales":           "sales_report",
	"revenue":         "sales_report",
	"customer":        "customer_feedback",
	"reviews":         "customer_feedback",
	"testimonials":    "customer_feedback",
	"leads":           "lead_generation",
	"prospects":       "lead_generation",
	"pipeline":        "lead_generation",
	"ads":             "advertising_content",
	"advertisement":   "advertising_content",
	"creative":        "advertising_content",
	"social_media":    "social_media_analytics",
	"social":          "social_media_analytics",
	"engagement":      "social_media_analytics",
	"catalog":         "product_catalog",
	"products":        "product_catalog",
	"pricing":         "product_catalog",
	"segmentation":    "customer_segmentation",
	"demographics":    "customer_segmentation",
	"audience":        "customer_segmentation",
	"crm":             "crm_data",
	"contacts":        "crm_data",
	"relationship":    "crm_data",

	// Technical & IT
	"specs":           "technical_specification",
	"specification":   "technical_specification",
	"requirements":    "technical_specification",
	"api":             "api_documentation",
	"integration":     "api_documentation",
	"endpoints":       "api_documentation",
	"architecture":    "system_architecture",
	"design":          "system_architecture",
	"infrastructure":  "system_architecture",
	"manual":          "user_manual",
	"guide":           "user_manual",
	"documentation":   "user_manual",
	"installation":    "installation_guide",
	"setup":           "installation_guide",
	"deployment":      "installation_guide",
	"troubleshooting": "troubleshooting_guide",
	"faq":             "troubleshooting_guide",
	"support":         "troubleshooting_guide",
	"srs":             "software_requirements",
	"functional_spec": "software_requirements",
	"features":        "software_requirements",
	"network":         "network_diagram",
	"topology":        "network_diagram",
	"it_security":     "security_policy",
	"cybersecurity":   "security_policy",
	"access_control":  "security_policy",
	"schema":          "data_dictionary",
	"database":        "data_dictionary",
	"data_model":      "data_dictionary",
	"release":         "release_notes",
	"changelog":       "release_notes",
	"version":         "release_notes",
	"technical":       "technical_report",
	"engineering":     "technical_report",
	"feasibility":     "technical_report",

	// Research & academic
	"research":           "research_paper",
	"paper":              "research_paper",
	"academic":           "research_paper",
	"scholarly":          "research_paper",
	"dissertation":       "thesis",
	"graduate":           "thesis",
	"phd":                "thesis",
	"literature":         "literature_review",
	"case":               "case_study",
	"analysis":           "case_study",
	"example":            "case_study",
	"lab_report":         "scientific_report",
	"lab":                "scientific_report",
	"experiment":         "experimental_data",
	"test_results":       "experimental_data",
	"data":               "experimental_data",
	"survey":             "survey_results",
	"questionnaire":      "survey_results",
	"poll":               "survey_results",
	"statistics":         "statistical_analysis",
	"quantitative":       "statistical_analysis",
	"numbers":            "statistical_analysis",
	"white_paper":        "whitepaper",
	"thought_leadership": "whitepaper",
	"conference":         "conference_proceedings",
	"symposium":          "conference_proceedings",
	"presentation":       "conference_proceedings",

	// Communications & correspondence
	"letter":           "official_letter",
	"letters":          "official_letter",
	"correspondence":   "official_letter",
	"formal_letter":    "official_letter",
	"official":         "official_letter",
	"official_letters": "official_letter",
	"memos":            "memo",
	"memoranda":        "memo",
	"interoffice":      "memo",
	"email":            "email_correspondence",
	"emails":           "email_correspondence",
	"electronic":       "email_correspondence",
	"press":            "press_release",
	"media_release":    "press_release",
	"news":             "press_release",
	"newsletters":      "newsletter",
	"update":           "newsletter",
	"announcements":    "announcement",
	"notice":           "announcement",
	"circulars":        "circular",
	"bulletin":         "circular",
	"notifications":    "notification",
	"alert":            "notification",
	"invitations":      "invitation",
	"invite":           "invitation",
	"event":            "invitation",
	"thank_you":        "thank_you_letter",
	"appreciation":     "thank_you_letter",
	"acknowledgment":   "thank_you_letter",

	// Intelligence & security
	"threat":        "threat_assessment",
	"threats":       "threat_assessment",
	"security":      "security_report",
	"breach":        "security_report",
	"surveillance":  "surveillance_report",
	"monitoring":    "surveillance_report",
	"observation":   "surveillance_report",
	"risk":          "risk_analysis",
	"vulnerability": "vulnerability_assessment",
	"geopolitical":  "geopolitical_brief",
	"political":     "geopolitical_brief",
	"international": "geopolitical_brief",
	"incident":      "incident_report",
	"accident":      "incident_report",
	"background":    "background_check",
	"due_diligence": "background_check",
	"screening":     "background_check",
	"intel":         "intelligence_summary",
	"intelligence":  "intelligence_summary",
	"sitrep":        "situation_report",
	"status":        "situation_report",
	"pentest":       "vulnerability_assessment",
	"penetration":   "vulnerability_assessment",
	"osint":         "osint_report",
	"open_source":   "osint_report",
	"classified":    "classified_document",
	"secret":        "classified_document",
	"restricted":    "classified_document",
}
