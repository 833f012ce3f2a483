package function

// ParamType is the JSON type of a function parameter.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeObject ParamType = "object"
)

// ParameterSpec describes one function parameter. Properties is only set for
// object parameters.
type ParameterSpec struct {
	Name        string          `json:"name"`
	Type        ParamType       `json:"type"`
	Description string          `json:"description"`
	Required    bool            `json:"required"`
	Properties  []ParameterSpec `json:"properties,omitempty"`
}

// FunctionDescriptor describes a callable function for a tool-use framework.
type FunctionDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterSpec `json:"parameters"`
}

// Function names, in catalog order.
const (
	ShowLists  = "showLists"
	ListCards  = "listCards"
	MoveCard   = "moveCard"
	GetCard    = "getCard"
	UpdateCard = "updateCard"
	CreateCard = "createCard"
)

// Definitions returns the descriptors of every catalog function. A new slice
// is built on each call so callers may modify the result.
func Definitions() []FunctionDescriptor {
	return []FunctionDescriptor{
		{
			Name:        ShowLists,
			Description: "List all lists on a specified Trello board.",
			Parameters:  []ParameterSpec{},
		},
		{
			Name:        ListCards,
			Description: "List all cards in the specified list on the Trello board.",
			Parameters: []ParameterSpec{
				{Name: "listId", Type: TypeString, Description: "The list ID to retrieve cards from", Required: true},
			},
		},
		{
			Name:        MoveCard,
			Description: "Move a specified card to a new list.",
			Parameters: []ParameterSpec{
				{Name: "cardId", Type: TypeString, Description: "The ID of the card to move", Required: true},
				{Name: "listId", Type: TypeString, Description: "The ID of the target list", Required: true},
			},
		},
		{
			Name:        GetCard,
			Description: "Retrieve details of the specified card on the Trello board.",
			Parameters: []ParameterSpec{
				{Name: "cardId", Type: TypeString, Description: "The ID of the card to retrieve", Required: true},
			},
		},
		{
			Name:        UpdateCard,
			Description: "Update data of a card on the Trello board.",
			Parameters: []ParameterSpec{
				{Name: "cardId", Type: TypeString, Description: "The ID of the card to update", Required: true},
				{
					Name: "data", Type: TypeObject, Description: "The new data for updating the card", Required: true,
					Properties: []ParameterSpec{
						{Name: "name", Type: TypeString, Description: "The new name of the card", Required: true},
						{Name: "desc", Type: TypeString, Description: "The new description for the card", Required: true},
					},
				},
			},
		},
		{
			Name:        CreateCard,
			Description: "Create a new card in a specified list.",
			Parameters: []ParameterSpec{
				{Name: "listId", Type: TypeString, Description: "The ID of the list to add the card to", Required: true},
				{
					Name: "data", Type: TypeObject, Description: "The data for creating a card", Required: true,
					Properties: []ParameterSpec{
						{Name: "name", Type: TypeString, Description: "The name of the card", Required: true},
						{Name: "desc", Type: TypeString, Description: "The description of the card", Required: true},
					},
				},
			},
		},
	}
}

// Schema renders the parameters as a JSON Schema object.
func (d FunctionDescriptor) Schema() map[string]any {
	return objectSchema("", d.Parameters)
}

// ToolDefinition renders the descriptor as an OpenAI-style function tool.
func (d FunctionDescriptor) ToolDefinition() map[string]any {
	return map[string]any{
		"type":        "function",
		"name":        d.Name,
		"description": d.Description,
		"parameters":  d.Schema(),
	}
}

func objectSchema(description string, params []ParameterSpec) map[string]any {
	properties := map[string]any{}
	required := []string{}
	for _, p := range params {
		properties[p.Name] = paramSchema(p)
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       string(TypeObject),
		"properties": properties,
		"required":   required,
	}
	if description != "" {
		schema["description"] = description
	}
	return schema
}

func paramSchema(p ParameterSpec) map[string]any {
	if p.Type == TypeObject {
		return objectSchema(p.Description, p.Properties)
	}
	return map[string]any{
		"type":        string(p.Type),
		"description": p.Description,
	}
}
