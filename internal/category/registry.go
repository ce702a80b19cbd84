// Package category holds the static classification taxonomy: the registry of
// pipeline categories, alias lookups and domain groupings used to normalize
// model output into canonical category names.
package category

// Unclassified is the terminal category for documents no model could place.
const Unclassified = "unclassified"

// Registry maps every canonical category to the description fed to the
// scoring models and used as the embedding seed text.
var Registry = map[string]string{
	// Business & operations
	"operations_report":            "Operational reports: daily/weekly/monthly operations summaries, status updates, operational metrics",
	"kpi_dashboard":                "KPI dashboards: key performance indicators, metrics visualization, performance scorecards",
	"performance_review":           "Performance reviews: business unit performance, department evaluations, quarterly reviews",
	"inventory_management":         "Inventory documents: stock levels, inventory counts, warehouse reports, material tracking",
	"supply_chain":                 "Supply chain documents: logistics, shipping, procurement, vendor management, distribution",
	"production_schedule":          "Production schedules: manufacturing timelines, production plans, capacity planning",
	"quality_control":              "Quality control: QA reports, inspection records, defect tracking, quality metrics",
	"project_management":           "Project management: project plans, timelines, milestones, resource allocation, Gantt charts",
	"business_strategy":            "Business strategy: strategic plans, vision documents, competitive positioning, growth plans",
	"meeting_minutes":              "Meeting minutes: board meetings, team meetings, stakeholder meetings, action items",
	"organizational_chart":         "Organizational charts: org structures, hierarchy diagrams, reporting lines, team structures",
	"process_documentation":        "Process documentation: workflows, procedures, process maps, operational guides",
	"standard_operating_procedure": "SOPs: standard operating procedures, work instructions, operational protocols",
	"compliance_report":            "Compliance reports: regulatory compliance, policy adherence, audit findings, corrective actions",
	"vendor_management":            "Vendor management: supplier contracts, vendor evaluations, procurement documents",

	// Financial
	"invoice":            "Invoices: billing documents, payment requests, itemized charges, service invoices",
	"receipt":            "Receipts: payment confirmations, transaction receipts, proof of purchase",
	"purchase_order":     "Purchase orders: POs, order requests, requisitions, buying orders",
	"budget":             "Budgets: financial plans, budget allocations, spending plans, cost estimates",
	"expense_report":     "Expense reports: reimbursement requests, travel expenses, cost claims",
	"profit_loss":        "P&L statements: profit and loss, income statements, earnings reports",
	"balance_sheet":      "Balance sheets: assets and liabilities, financial position, equity statements",
	"cash_flow":          "Cash flow: cash flow statements, liquidity reports, fund movements",
	"tax_document":       "Tax documents: tax returns, tax filings, tax assessments, withholding records",
	"audit_report":       "Audit reports: financial audits, internal audits, external audits, audit findings",
	"financial_forecast": "Financial forecasts: projections, financial models, revenue predictions",
	"investment_report":  "Investment reports: portfolio analysis, investment performance, asset allocation",
	"bank_statement":     "Bank statements: account statements, transaction history, bank records",
	"payroll":            "Payroll: salary records, wage statements, compensation documents, pay stubs",
	"financial_contract": "Financial contracts: loan agreements, credit terms, financing documents",

	// Legal & regulatory
	"legal_contract":       "Legal contracts: binding agreements, service contracts, partnership agreements",
	"nda":                  "NDAs: non-disclosure agreements, confidentiality agreements, secrecy contracts",
	"terms_conditions":     "Terms & conditions: T&C documents, user agreements, service terms",
	"privacy_policy":       "Privacy policies: data protection policies, GDPR documents, privacy notices",
	"regulatory_filing":    "Regulatory filings: government submissions, regulatory reports, compliance filings",
	"court_document":       "Court documents: legal filings, court orders, judgments, legal proceedings",
	"patent":               "Patents: patent applications, patent grants, intellectual property filings",
	"trademark":            "Trademarks: trademark registrations, brand protection, IP documentation",
	"license_agreement":    "License agreements: software licenses, usage rights, licensing terms",
	"legal_brief":          "Legal briefs: legal arguments, case summaries, legal memoranda",
	"power_of_attorney":    "Power of attorney: authorization documents, legal representation, proxy documents",
	"corporate_governance": "Corporate governance: bylaws, board resolutions, shareholder documents",

	// Human resources
	"employee_record":        "Employee records: personnel files, employee data, HR records",
	"resume_cv":              "Resumes/CVs: job applications, career histories, professional profiles",
	"job_description":        "Job descriptions: role definitions, position requirements, job postings",
	"performance_evaluation": "Performance evaluations: employee reviews, appraisals, feedback forms",
	"training_material":      "Training materials: learning content, course materials, skill development",
	"onboarding_document":    "Onboarding documents: new hire paperwork, orientation materials, welcome packets",
	"benefits_summary":       "Benefits summaries: insurance plans, retirement plans, employee benefits",
	"disciplinary_record":    "Disciplinary records: warnings, corrective actions, HR incidents",
	"termination_letter":     "Termination letters: dismissal notices, resignation acceptance, exit documents",
	"salary_structure":       "Salary structures: compensation plans, pay grades, salary bands",
	"leave_request":          "Leave requests: vacation requests, time-off applications, absence records",
	"employee_handbook":      "Employee handbooks: company policies, workplace rules, HR guidelines",

	// Marketing & sales
	"marketing_campaign":     "Marketing campaigns: campaign plans, promotional strategies, marketing initiatives",
	"brand_guidelines":       "Brand guidelines: brand standards, visual identity, brand books",
	"market_research":        "Market research: market analysis, consumer studies, market surveys",
	"competitive_analysis":   "Competitive analysis: competitor reports, market positioning, benchmarking",
	"sales_report":           "Sales reports: sales performance, revenue tracking, sales metrics",
	"customer_feedback":      "Customer feedback: reviews, surveys, satisfaction scores, testimonials",
	"lead_generation":        "Lead generation: prospect lists, lead tracking, sales pipeline",
	"advertising_content":    "Advertising content: ads, promotional materials, creative briefs",
	"social_media_analytics": "Social media analytics: engagement metrics, social performance, platform stats",
	"product_catalog":        "Product catalogs: product listings, specifications, pricing sheets",
	"customer_segmentation":  "Customer segmentation: audience analysis, demographic data, customer profiles",
	"crm_data":               "CRM data: customer relationship data, contact records, interaction history",

	// Technical & IT
	"technical_specification": "Technical specifications: system specs, requirements documents, design specs",
	"api_documentation":       "API documentation: API references, integration guides, endpoint documentation",
	"system_architecture":     "System architecture: architecture diagrams, system designs, infrastructure plans",
	"user_manual":             "User manuals: product guides, user documentation, how-to guides",
	"installation_guide":      "Installation guides: setup instructions, deployment guides, configuration docs",
	"troubleshooting_guide":   "Troubleshooting guides: problem resolution, FAQ, support documentation",
	"software_requirements":   "Software requirements: SRS documents, functional specifications, feature lists",
	"network_diagram":         "Network diagrams: topology maps, network architecture, infrastructure diagrams",
	"security_policy":         "Security policies: IT security, access controls, cybersecurity guidelines",
	"data_dictionary":         "Data dictionaries: database schemas, data definitions, field descriptions",
	"release_notes":           "Release notes: version updates, changelog, software releases",
	"technical_report":        "Technical reports: engineering reports, technical analysis, feasibility studies",

	// Research & academic
	"research_paper":         "Research papers: academic research, peer-reviewed studies, scholarly articles",
	"thesis":                 "Theses: dissertations, academic theses, graduate research",
	"literature_review":      "Literature reviews: academic reviews, research summaries, state-of-the-art",
	"case_study":             "Case studies: detailed analyses, real-world examples, business cases",
	"scientific_report":      "Scientific reports: lab reports, experimental findings, scientific documentation",
	"experimental_data":      "Experimental data: raw research data, test results, measurement records",
	"survey_results":         "Survey results: questionnaire responses, polling data, research surveys",
	"statistical_analysis":   "Statistical analysis: data analysis, quantitative studies, statistical reports",
	"whitepaper":             "Whitepapers: industry papers, thought leadership, technical whitepapers",
	"conference_proceedings": "Conference proceedings: academic conferences, symposium papers, presentations",

	// Communications & correspondence
	"official_letter":      "Official letters: formal correspondence, business letters, official communications",
	"memo":                 "Memos: internal memos, office memoranda, interoffice communications",
	"email_correspondence": "Email correspondence: business emails, email threads, electronic communications",
	"press_release":        "Press releases: media announcements, news releases, public statements",
	"newsletter":           "Newsletters: company newsletters, internal communications, periodic updates",
	"announcement":         "Announcements: company announcements, notices, organizational updates",
	"circular":             "Circulars: administrative circulars, policy circulars, information bulletins",
	"notification":         "Notifications: official notices, alerts, formal notifications",
	"invitation":           "Invitations: event invitations, meeting invitations, formal invites",
	"thank_you_letter":     "Thank you letters: appreciation letters, acknowledgment letters, gratitude notes",

	// Intelligence & security
	"threat_assessment":        "Threat assessments: risk evaluations, threat analysis, security threats",
	"security_report":          "Security reports: security incidents, breach reports, security audits",
	"surveillance_report":      "Surveillance reports: monitoring reports, observation records, watch lists",
	"risk_analysis":            "Risk analysis: risk assessments, vulnerability analysis, risk matrices",
	"geopolitical_brief":       "Geopolitical briefs: political analysis, regional assessments, international relations",
	"incident_report":          "Incident reports: security incidents, accident reports, event documentation",
	"background_check":         "Background checks: due diligence, personnel verification, screening reports",
	"intelligence_summary":     "Intelligence summaries: intel briefs, situation summaries, analysis reports",
	"situation_report":         "Situation reports: SITREP, status reports, operational updates",
	"vulnerability_assessment": "Vulnerability assessments: security vulnerabilities, penetration test reports",
	"osint_report":             "OSINT reports: open source intelligence, publicly available information analysis",
	"classified_document":      "Classified documents: sensitive information, restricted access materials",
}

// Names returns every canonical category in stable (sorted) order. The
// pre-filter falls back to the head of this list when no embeddings are
// available, so the order must be deterministic.
func Names() []string {
	return namesSorted
}

// Known reports whether name is a canonical category.
func Known(name string) bool {
	_, ok := Registry[name]
	return ok
}

// Description returns the registry description for a canonical category, or
// an empty string for unknown names.
func Description(name string) string {
	return Registry[name]
}
