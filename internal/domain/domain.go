package domain

type Phase struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        PhaseType `json:"type"`
	Order       int       `json:"order"`
	Description string    `json:"description,omitempty"`
	Inputs      []string  `json:"inputs,omitempty"`
	Outputs     []string  `json:"outputs,omitempty"`
	Tools       []string  `json:"tools,omitempty"`
	IsCustom    bool      `json:"isCustom"`
}

type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	PhaseID        string     `json:"phaseId,omitempty"`
	Assignee       string     `json:"assignee,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	StartDate      string     `json:"startDate,omitempty"`
	DueDate        string     `json:"dueDate,omitempty"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
	CreatedBy      string     `json:"createdBy,omitempty"`
	UpdatedBy      string     `json:"updatedBy,omitempty"`
	StoryPoints    *float64   `json:"storyPoints,omitempty"`
	EstimatedHours *float64   `json:"estimatedHours,omitempty"`
	ActualHours    *float64   `json:"actualHours,omitempty"`
}

type BacklogItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	StoryPoints int           `json:"storyPoints"`
	Priority    Priority      `json:"priority"`
	Type        BacklogType   `json:"type"`
	Status      BacklogStatus `json:"status"`
	Order       int           `json:"order"`
	CreatedAt   string        `json:"createdAt"`
}

type WBSNode struct {
	ID          string   `json:"id"`
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Level       int      `json:"level"`
	ParentID    string   `json:"parentId,omitempty"`
	Children    []string `json:"children,omitempty"`
}

type Risk struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Probability Probability  `json:"probability"`
	Impact      Impact       `json:"impact"`
	Score       int          `json:"score"`
	Response    RiskResponse `json:"response,omitempty"`
	Owner       string       `json:"owner,omitempty"`
	Status      RiskStatus   `json:"status"`
	LinkedTasks []string     `json:"linkedTasks,omitempty"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

type Stakeholder struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Influence    Level  `json:"influence"`
	Interest     Level  `json:"interest"`
	Notes        string `json:"notes,omitempty"`
}

type Requirement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        RequirementType     `json:"type"`
	Priority    RequirementPriority `json:"priority"`
	Status      RequirementStatus   `json:"status"`
	Source      string              `json:"source,omitempty"`
	LinkedTasks []string            `json:"linkedTasks,omitempty"`
	CreatedAt   string              `json:"createdAt"`
	UpdatedAt   string              `json:"updatedAt"`
}

// RACIEntry assigns one responsibility to a role for a single entity.
type RACIEntry struct {
	ID             string         `json:"id"`
	EntityType     EntityKind     `json:"entityType"`
	EntityID       string         `json:"entityId"`
	Role           string         `json:"role"`
	Responsibility Responsibility `json:"responsibility"`
}

type TaskHistoryEntry struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	Action    string `json:"action"`
	Field     string `json:"field,omitempty"`
	OldValue  string `json:"oldValue,omitempty"`
	NewValue  string `json:"newValue,omitempty"`
	UserName  string `json:"userName"`
	Timestamp string `json:"timestamp"`
	Comment   string `json:"comment,omitempty"`
}

type TeamMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type Sprint struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Goal           string       `json:"goal,omitempty"`
	StartDate      string       `json:"startDate,omitempty"`
	EndDate        string       `json:"endDate,omitempty"`
	Status         SprintStatus `json:"status"`
	BacklogItemIDs []string     `json:"backlogItemIds,omitempty"`
	TaskIDs        []string     `json:"taskIds,omitempty"`
}

type Release struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Version     string        `json:"version,omitempty"`
	ReleaseDate string        `json:"releaseDate,omitempty"`
	Status      ReleaseStatus `json:"status"`
	SprintIDs   []string      `json:"sprintIds,omitempty"`
}

type GanttTask struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Progress     int      `json:"progress"`
	Dependencies []string `json:"dependencies,omitempty"`
	TaskID       string   `json:"taskId,omitempty"`
}

// Project is the unit of persistence; it exclusively owns every collection in Data.
type Project struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Mode        ProjectMode `json:"mode"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	Data        ProjectData `json:"data"`
}

// ProjectSummary is the index row kept for every stored project.
type ProjectSummary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Mode      ProjectMode `json:"mode"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

func (p Project) Summary() ProjectSummary {
	return ProjectSummary{ID: p.ID, Name: p.Name, Mode: p.Mode, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts"`
	Type       string `json:"type"`
	ProjectID  string `json:"projectId,omitempty"`
	EntityKind string `json:"entityKind"`
	EntityID   string `json:"entityId,omitempty"`
	ActorID    string `json:"actorId"`
	Payload    string `json:"payload"`
}
