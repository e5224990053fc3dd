package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"alfredoptarigan/resume-ranker/internal/models"
)

// DefaultSkillDictionary returns a fresh copy of the built-in dictionary.
func DefaultSkillDictionary() models.SkillDictionary {
	dict := make(models.SkillDictionary, len(defaultSkills))
	for name, aliases := range defaultSkills {
		dict[name] = append([]string(nil), aliases...)
	}
	return dict
}

// LoadSkillDictionary reads a YAML mapping of official skill name to aliases.
// An empty path yields the built-in dictionary.
func LoadSkillDictionary(path string) (models.SkillDictionary, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultSkillDictionary(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skill dictionary: %w", err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse skill dictionary: %w", err)
	}

	dict := make(models.SkillDictionary, len(raw))
	for name, aliases := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cleaned := make([]string, 0, len(aliases))
		for _, alias := range aliases {
			if alias = strings.TrimSpace(alias); alias != "" {
				cleaned = append(cleaned, alias)
			}
		}
		dict[name] = cleaned
	}

	if len(dict) == 0 {
		return nil, fmt.Errorf("skill dictionary %s is empty", path)
	}
	return dict, nil
}

var defaultSkills = map[string][]string{
	// Technical
	"Python":                  {"Python", "py"},
	"Go":                      {"Go", "Golang"},
	"SQL":                     {"SQL", "PostgreSQL", "MySQL", "MSSQL"},
	"AWS":                     {"AWS", "Amazon Web Services"},
	"Azure":                   {"Azure", "Microsoft Azure"},
	"GCP":                     {"GCP", "Google Cloud Platform"},
	"JavaScript":              {"JavaScript", "JS"},
	"TypeScript":              {"TypeScript", "TS"},
	"React":                   {"React", "React.js"},
	"Node.js":                 {"Node.js", "NodeJS"},
	"Django":                  {"Django"},
	"Flask":                   {"Flask"},
	"Redis":                   {"Redis"},
	"Jenkins":                 {"Jenkins"},
	"Git":                     {"Git", "GitHub", "GitLab"},
	"Docker":                  {"Docker"},
	"Kubernetes":              {"Kubernetes", "K8s"},
	"RESTful APIs":            {"RESTful APIs", "REST API", "REST"},
	"GraphQL":                 {"GraphQL"},
	"Microservices":           {"Microservices", "Microservice"},
	"CI/CD":                   {"CI/CD", "Continuous Integration", "Continuous Deployment"},
	"TensorFlow":              {"TensorFlow", "TF"},
	"PyTorch":                 {"PyTorch"},
	"Scikit-learn":            {"Scikit-learn", "sklearn"},
	"Pandas":                  {"Pandas"},
	"NumPy":                   {"NumPy"},
	"Tableau":                 {"Tableau"},
	"PowerBI":                 {"Power BI", "PowerBI"},
	"Artificial Intelligence": {"Artificial Intelligence", "AI"},
	"Machine Learning":        {"Machine Learning", "ML"},

	// HR
	"Recruitment":             {"Recruitment", "Recruiting", "Talent Acquisition"},
	"Onboarding":              {"Onboarding", "Employee Onboarding"},
	"HRIS":                    {"HRIS", "Human Resources Information System"},
	"Performance Management":  {"Performance Management"},
	"Compensation & Benefits": {"Compensation & Benefits", "Comp & Ben"},

	// Delivery and project management
	"Agile Methodology":      {"Agile", "Agile Methodology"},
	"Scrum":                  {"Scrum", "Scrum Master"},
	"Kanban":                 {"Kanban"},
	"Waterfall Methodology":  {"Waterfall", "Waterfall Methodology"},
	"PMP":                    {"PMP", "Project Management Professional"},
	"PRINCE2":                {"PRINCE2"},
	"JIRA":                   {"JIRA", "Atlassian JIRA"},
	"Confluence":             {"Confluence"},
	"Trello":                 {"Trello"},
	"Asana":                  {"Asana"},
	"Microsoft Project":      {"Microsoft Project", "MS Project"},
	"Risk Management":        {"Risk Management", "Risk Mitigation"},
	"Stakeholder Management": {"Stakeholder Management", "Stakeholder Communication"},
	"Budget Management":      {"Budget Management", "Budgeting", "Financial Planning"},
	"Scope Management":       {"Scope Management", "Scope Creep"},
	"Resource Allocation":    {"Resource Allocation", "Resource Management"},
	"Gantt Charts":           {"Gantt Charts", "Gantt"},
	"SDLC":                   {"SDLC", "Software Development Life Cycle"},
	"Change Management":      {"Change Management", "Change Control"},
	"ITIL":                   {"ITIL", "Information Technology Infrastructure Library"},
	"SLA Management":         {"SLA Management", "Service Level Agreement"},

	// Soft skills
	"Leadership":      {"Leadership", "Team Leadership"},
	"Communication":   {"Communication", "Verbal Communication", "Written Communication"},
	"Negotiation":     {"Negotiation"},
	"Problem Solving": {"Problem Solving", "Analytical Skills"},
	"Decision Making": {"Decision Making"},

	// Finance
	"Financial Reporting":   {"Financial Reporting", "Financial Analysis", "Variance Analysis"},
	"Forecasting":           {"Forecasting"},
	"Cost Accounting":       {"Cost Accounting"},
	"Financial Modeling":    {"Financial Modeling", "Financial Modelling"},
	"Regulatory Compliance": {"Regulatory Compliance", "GAAP", "IFRS"},
	"Excel":                 {"Excel", "Microsoft Excel"},
}
