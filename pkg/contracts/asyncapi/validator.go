package asyncapi

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/wms-platform/fulfillment-service/pkg/cloudevents"
)

//go:embed fulfillment.yaml
var fulfillmentContract []byte

const envelopeSchema = "CloudEventEnvelope"

// EventValidator validates CloudEvents against the schemas of an AsyncAPI document
type EventValidator struct {
	envelope *jsonschema.Schema
	payloads map[string]*jsonschema.Schema
}

// Spec is the subset of an AsyncAPI document the validator reads
type Spec struct {
	AsyncAPI   string     `yaml:"asyncapi"`
	Info       Info       `yaml:"info"`
	Components Components `yaml:"components"`
}

// Info is the AsyncAPI info section
type Info struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

// Components holds reusable schemas and messages
type Components struct {
	Schemas  map[string]any     `yaml:"schemas"`
	Messages map[string]Message `yaml:"messages"`
}

// Message is one event. Name carries the CloudEvents type.
type Message struct {
	Name        string `yaml:"name"`
	ContentType string `yaml:"contentType"`
	Payload     any    `yaml:"payload"`
}

// NewFulfillmentValidator returns a validator for the events this service publishes
func NewFulfillmentValidator() (*EventValidator, error) {
	return NewEventValidatorFromBytes(fulfillmentContract)
}

// NewEventValidator creates a validator from an AsyncAPI file
func NewEventValidator(path string) (*EventValidator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read AsyncAPI spec: %w", err)
	}
	return NewEventValidatorFromBytes(data)
}

// NewEventValidatorFromBytes creates a validator from AsyncAPI document bytes
func NewEventValidatorFromBytes(specBytes []byte) (*EventValidator, error) {
	var spec Spec
	if err := yaml.Unmarshal(specBytes, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse AsyncAPI spec: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	v := &EventValidator{payloads: make(map[string]*jsonschema.Schema, len(spec.Components.Messages))}

	if raw, ok := spec.Components.Schemas[envelopeSchema]; ok {
		schema, err := compile(compiler, "asyncapi://schemas/"+envelopeSchema, raw)
		if err != nil {
			return nil, err
		}
		v.envelope = schema
	}

	for key, msg := range spec.Components.Messages {
		if msg.Name == "" || msg.Payload == nil {
			return nil, fmt.Errorf("message %s needs a name and a payload", key)
		}
		schema, err := compile(compiler, "asyncapi://messages/"+key, msg.Payload)
		if err != nil {
			return nil, err
		}
		v.payloads[msg.Name] = schema
	}

	return v, nil
}

func compile(compiler *jsonschema.Compiler, uri string, raw any) (*jsonschema.Schema, error) {
	doc, err := toJSONValue(raw)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", uri, err)
	}
	if err := compiler.AddResource(uri, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", uri, err)
	}
	schema, err := compiler.Compile(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", uri, err)
	}
	return schema, nil
}

// toJSONValue round-trips v through JSON so numbers and maps have the shapes jsonschema expects
func toJSONValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

// ValidateEvent checks the envelope and the payload of event
func (v *EventValidator) ValidateEvent(event *cloudevents.WMSCloudEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}

	schema, ok := v.payloads[event.Type]
	if !ok {
		return fmt.Errorf("no schema found for event type: %s", event.Type)
	}

	if v.envelope != nil {
		envelope, err := toJSONValue(event)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		if err := v.envelope.Validate(envelope); err != nil {
			return fmt.Errorf("event envelope validation failed for type %s: %w", event.Type, err)
		}
	}

	if event.Data == nil {
		return fmt.Errorf("event data is required")
	}
	data, err := toJSONValue(event.Data)
	if err != nil {
		return fmt.Errorf("failed to encode event data: %w", err)
	}
	if err := schema.Validate(data); err != nil {
		return fmt.Errorf("event data validation failed for type %s: %w", event.Type, err)
	}
	return nil
}

// SupportedEventTypes returns the event types with a registered schema, sorted
func (v *EventValidator) SupportedEventTypes() []string {
	types := make([]string, 0, len(v.payloads))
	for t := range v.payloads {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// HasSchema checks if a schema exists for the given event type
func (v *EventValidator) HasSchema(eventType string) bool {
	_, ok := v.payloads[eventType]
	return ok
}
