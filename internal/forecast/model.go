package forecast

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Model predicts one value per feature row.
type Model interface {
	Schema() FeatureSchema
	Predict(x [][]float64) ([]float64, error)
}

// LinearModel is an exported linear regression (ordinary, ridge or lasso all
// reduce to coefficients plus intercept at inference time).
type LinearModel struct {
	schema       FeatureSchema
	coefficients []float64
	intercept    float64
}

// artifactDocument is the on-disk layout. YAML is a superset of JSON so both
// encodings decode here.
type artifactDocument struct {
	Schema       string    `yaml:"schema"`
	Features     []string  `yaml:"features"`
	Coefficients []float64 `yaml:"coefficients"`
	Intercept    float64   `yaml:"intercept"`
}

var ErrInvalidArtifact = errors.New("invalid model artifact")

// DecodeLinearModel reads a model artifact and validates it against the
// registered feature schemas.
func DecodeLinearModel(r io.Reader) (*LinearModel, error) {
	var doc artifactDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	schema, ok := LookupSchema(doc.Schema)
	if !ok {
		return nil, fmt.Errorf("%w: unknown feature schema %q", ErrInvalidArtifact, doc.Schema)
	}
	if len(doc.Features) > 0 && !schema.Matches(doc.Features) {
		return nil, fmt.Errorf("%w: features %v do not match schema %s", ErrInvalidArtifact, doc.Features, schema)
	}
	if len(doc.Coefficients) != len(schema.Columns) {
		return nil, fmt.Errorf("%w: expected %d coefficients, got %d",
			ErrInvalidArtifact, len(schema.Columns), len(doc.Coefficients))
	}

	return NewLinearModel(schema, doc.Coefficients, doc.Intercept), nil
}

func NewLinearModel(schema FeatureSchema, coefficients []float64, intercept float64) *LinearModel {
	return &LinearModel{
		schema:       schema,
		coefficients: append([]float64(nil), coefficients...),
		intercept:    intercept,
	}
}

func (m *LinearModel) Schema() FeatureSchema {
	return m.schema
}

func (m *LinearModel) Predict(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.coefficients) {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), len(m.coefficients))
		}
		y := m.intercept
		for j, v := range row {
			y += m.coefficients[j] * v
		}
		out[i] = y
	}
	return out, nil
}
