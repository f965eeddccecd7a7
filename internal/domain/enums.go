package domain

import "slices"

// EntityKind names a collection inside ProjectData. RACI entries use it as entityType.
type EntityKind string

const (
	KindPhase       EntityKind = "phase"
	KindTask        EntityKind = "task"
	KindBacklogItem EntityKind = "backlog"
	KindWBSNode     EntityKind = "wbs"
	KindRisk        EntityKind = "risk"
	KindStakeholder EntityKind = "stakeholder"
	KindRequirement EntityKind = "requirement"
	KindRACIEntry   EntityKind = "raci"
	KindCustomRole  EntityKind = "customRole"
	KindTeamMember  EntityKind = "teamMember"
	KindSprint      EntityKind = "sprint"
	KindRelease     EntityKind = "release"
	KindGanttTask   EntityKind = "ganttTask"
	KindTaskHistory EntityKind = "taskHistory"
)

var raciTargets = []EntityKind{
	KindPhase, KindTask, KindBacklogItem, KindWBSNode, KindRisk,
	KindStakeholder, KindRequirement, KindSprint, KindRelease,
}

// RACITarget reports whether RACI entries may point at entities of kind k.
func (k EntityKind) RACITarget() bool { return slices.Contains(raciTargets, k) }

type PhaseType string

const (
	PhaseInitiation  PhaseType = "initiation"
	PhasePlanning    PhaseType = "planning"
	PhaseAnalysis    PhaseType = "analysis"
	PhaseDesign      PhaseType = "design"
	PhaseDevelopment PhaseType = "development"
	PhaseTesting     PhaseType = "testing"
	PhaseDeployment  PhaseType = "deployment"
	PhaseClosure     PhaseType = "closure"
	PhaseCustom      PhaseType = "custom"
)

func (t PhaseType) Valid() bool {
	switch t {
	case PhaseInitiation, PhasePlanning, PhaseAnalysis, PhaseDesign, PhaseDevelopment,
		PhaseTesting, PhaseDeployment, PhaseClosure, PhaseCustom:
		return true
	}
	return false
}

type TaskStatus string

const (
	StatusBacklog    TaskStatus = "backlog"
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusBacklog, StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type BacklogType string

const (
	BacklogFeature   BacklogType = "feature"
	BacklogBug       BacklogType = "bug"
	BacklogTechnical BacklogType = "technical"
	BacklogSpike     BacklogType = "spike"
)

func (t BacklogType) Valid() bool {
	switch t {
	case BacklogFeature, BacklogBug, BacklogTechnical, BacklogSpike:
		return true
	}
	return false
}

type BacklogStatus string

const (
	BacklogNew      BacklogStatus = "new"
	BacklogReady    BacklogStatus = "ready"
	BacklogInSprint BacklogStatus = "in-sprint"
	BacklogDone     BacklogStatus = "done"
)

func (s BacklogStatus) Valid() bool {
	switch s {
	case BacklogNew, BacklogReady, BacklogInSprint, BacklogDone:
		return true
	}
	return false
}

type Probability string

const (
	ProbabilityLow    Probability = "low"
	ProbabilityMedium Probability = "medium"
	ProbabilityHigh   Probability = "high"
)

var probabilityWeights = map[Probability]int{
	ProbabilityLow:    1,
	ProbabilityMedium: 2,
	ProbabilityHigh:   3,
}

func (p Probability) Weight() int { return probabilityWeights[p] }
func (p Probability) Valid() bool { _, ok := probabilityWeights[p]; return ok }

type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

var impactWeights = map[Impact]int{
	ImpactLow:      1,
	ImpactMedium:   2,
	ImpactHigh:     3,
	ImpactCritical: 4,
}

func (i Impact) Weight() int { return impactWeights[i] }
func (i Impact) Valid() bool { _, ok := impactWeights[i]; return ok }

// RiskScore is probability weight times impact weight.
func RiskScore(p Probability, i Impact) int {
	return p.Weight() * i.Weight()
}

type RiskResponse string

const (
	ResponseAvoid    RiskResponse = "avoid"
	ResponseMitigate RiskResponse = "mitigate"
	ResponseTransfer RiskResponse = "transfer"
	ResponseAccept   RiskResponse = "accept"
)

func (r RiskResponse) Valid() bool {
	switch r {
	case "", ResponseAvoid, ResponseMitigate, ResponseTransfer, ResponseAccept:
		return true
	}
	return false
}

type RiskStatus string

const (
	RiskOpen       RiskStatus = "open"
	RiskMonitoring RiskStatus = "monitoring"
	RiskMitigated  RiskStatus = "mitigated"
	RiskClosed     RiskStatus = "closed"
)

func (s RiskStatus) Valid() bool {
	switch s {
	case RiskOpen, RiskMonitoring, RiskMitigated, RiskClosed:
		return true
	}
	return false
}

// Level grades stakeholder influence and interest.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

type RequirementType string

const (
	RequirementFunctional    RequirementType = "functional"
	RequirementNonFunctional RequirementType = "non-functional"
	RequirementConstraint    RequirementType = "constraint"
	RequirementBusiness      RequirementType = "business"
)

func (t RequirementType) Valid() bool {
	switch t {
	case RequirementFunctional, RequirementNonFunctional, RequirementConstraint, RequirementBusiness:
		return true
	}
	return false
}

// RequirementPriority uses MoSCoW buckets.
type RequirementPriority string

const (
	RequirementMust   RequirementPriority = "must"
	RequirementShould RequirementPriority = "should"
	RequirementCould  RequirementPriority = "could"
	RequirementWont   RequirementPriority = "wont"
)

func (p RequirementPriority) Valid() bool {
	switch p {
	case RequirementMust, RequirementShould, RequirementCould, RequirementWont:
		return true
	}
	return false
}

type RequirementStatus string

const (
	RequirementDraft       RequirementStatus = "draft"
	RequirementApproved    RequirementStatus = "approved"
	RequirementImplemented RequirementStatus = "implemented"
	RequirementVerified    RequirementStatus = "verified"
)

func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementDraft, RequirementApproved, RequirementImplemented, RequirementVerified:
		return true
	}
	return false
}

type Responsibility string

const (
	Responsible Responsibility = "R"
	Accountable Responsibility = "A"
	Consulted   Responsibility = "C"
	Informed    Responsibility = "I"
)

func (r Responsibility) Valid() bool {
	switch r {
	case Responsible, Accountable, Consulted, Informed:
		return true
	}
	return false
}

func (r Responsibility) String() string {
	switch r {
	case Responsible:
		return "Responsible"
	case Accountable:
		return "Accountable"
	case Consulted:
		return "Consulted"
	case Informed:
		return "Informed"
	}
	return string(r)
}

// ParseResponsibility accepts the letter or the full word, capitalized or lower case.
func ParseResponsibility(s string) (Responsibility, bool) {
	switch s {
	case "R", "r", "Responsible", "responsible":
		return Responsible, true
	case "A", "a", "Accountable", "accountable":
		return Accountable, true
	case "C", "c", "Consulted", "consulted":
		return Consulted, true
	case "I", "i", "Informed", "informed":
		return Informed, true
	}
	return "", false
}

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

func (s SprintStatus) Valid() bool {
	switch s {
	case SprintPlanned, SprintActive, SprintCompleted:
		return true
	}
	return false
}

type ReleaseStatus string

const (
	ReleasePlanned  ReleaseStatus = "planned"
	ReleaseReleased ReleaseStatus = "released"
)

func (s ReleaseStatus) Valid() bool {
	return s == ReleasePlanned || s == ReleaseReleased
}

type ProjectMode string

const (
	ModeWaterfall ProjectMode = "waterfall"
	ModeAgile     ProjectMode = "agile"
	ModeHybrid    ProjectMode = "hybrid"
)

func (m ProjectMode) Valid() bool {
	switch m {
	case ModeWaterfall, ModeAgile, ModeHybrid:
		return true
	}
	return false
}
