package collect

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-inferform/pkg/imageutil"
	"github.com/goliatone/go-inferform/pkg/inference"
	"github.com/goliatone/go-inferform/pkg/schema"
)

// Collect reads every feature from form and returns the model input list in
// features order. A missing image fails with *MissingImageInputError.
func Collect(ctx context.Context, features []schema.Feature, form Form) ([]inference.ModelInput, error) {
	if form == nil {
		return nil, errors.New("collect: form is required")
	}

	inputs := make([]inference.ModelInput, len(features))
	g, ctx := errgroup.WithContext(ctx)
	for i, feature := range features {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := Value(feature, form)
			if err != nil {
				return err
			}
			inputs[i] = inference.ModelInput{
				Name:  feature.Name,
				Value: value,
				Type:  feature.Type,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// Value coerces a single feature's submitted value. Unparsable numbers
// become nil.
func Value(feature schema.Feature, form Form) (any, error) {
	switch feature.Type {
	case schema.FeatureTypeImage:
		return imageValue(feature, form)
	case schema.FeatureTypeInt:
		value, _ := ParseInt(form.Value(feature.Name))
		return value, nil
	case schema.FeatureTypeFloat:
		value, _ := ParseFloat(form.Value(feature.Name))
		return value, nil
	case schema.FeatureTypeString:
		return form.Value(feature.Name), nil
	default:
		return nil, fmt.Errorf("collect: feature %q has unsupported type %q", feature.Name, feature.Type)
	}
}

func imageValue(feature schema.Feature, form Form) (string, error) {
	data, err := form.File(feature.Name)
	switch {
	case err == nil:
		encoded, encErr := imageutil.Encode(data)
		if encErr != nil {
			return "", &MissingImageInputError{Feature: feature.Name}
		}
		return encoded, nil
	case errors.Is(err, ErrNoFile):
		if posted := form.Value(feature.Name); imageutil.IsDataURL(posted) {
			if stripped := imageutil.StripDataURLPrefix(posted); stripped != "" {
				return stripped, nil
			}
		}
		return "", &MissingImageInputError{Feature: feature.Name}
	default:
		return "", err
	}
}
