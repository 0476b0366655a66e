// internal/app/provision/pods.go
package provision

import (
	"context"
	"fmt"

	podstore "github.com/dalemusser/stratacms/internal/app/store/pods"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/runlog"
	"github.com/dalemusser/stratacms/internal/domain/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// RouteRefresher rebuilds routing state derived from the set of
// provisioned content types. It runs once per provisioning pass, after
// all pods are processed, never per pod.
type RouteRefresher interface {
	Refresh(ctx context.Context) error
}

// PodProvisioner creates content type definitions from a schema
// document. Pods are keyed by name: a pod that already exists is merged
// (missing fields added, missing options filled), never recreated.
type PodProvisioner struct {
	pods    *podstore.Store
	refresh RouteRefresher // may be nil
	log     *runlog.Logger
	logger  *zap.Logger
}

// NewPodProvisioner creates a pod provisioner. refresh may be nil when
// no routing state depends on the provisioned types.
func NewPodProvisioner(pods *podstore.Store, refresh RouteRefresher, log *runlog.Logger, logger *zap.Logger) *PodProvisioner {
	return &PodProvisioner{pods: pods, refresh: refresh, log: log, logger: logger}
}

// CreateAll provisions every pod in the document. An individual pod
// that fails validation is skipped with a warning; the remaining pods
// are still provisioned. Only infrastructure errors abort the pass.
func (p *PodProvisioner) CreateAll(ctx context.Context, doc *schema.Document) error {
	for _, pod := range doc.Pods {
		if !pod.Valid() {
			p.logger.Warn("skipping pod definition without name",
				zap.String("label", pod.Label))
			p.log.Append("SKIP pod (missing name)")
			continue
		}
		// Pod names are idempotency keys; comparisons go through the
		// same normalization everywhere.
		pod.Name = normalize.PodName(pod.Name)

		// Store rejections are entry-local: log, record, move on.
		if err := p.createOrMerge(ctx, pod); err != nil {
			p.logger.Warn("store rejected pod definition",
				zap.String("pod", pod.Name),
				zap.Error(err))
			p.log.Appendf("SKIP pod '%s' (store error): %v", pod.Name, err)
		}
	}

	// Routing state is rebuilt once for the whole pass, not per pod.
	if p.refresh != nil {
		if err := p.refresh.Refresh(ctx); err != nil {
			return fmt.Errorf("refresh content type routes: %w", err)
		}
		p.log.Append("refreshed content type routing")
	}
	return nil
}

// createOrMerge creates the pod definition if absent, otherwise adds
// any fields and options the stored definition is missing. Existing
// fields and options are never modified.
func (p *PodProvisioner) createOrMerge(ctx context.Context, pod schema.Pod) error {
	existing, err := p.pods.GetByName(ctx, pod.Name)
	if err != nil {
		return err
	}

	fields := p.validFields(pod)

	if existing == nil {
		def := podstore.PodDefinition{
			Name:    pod.Name,
			Label:   pod.Label,
			Kind:    pod.Kind,
			Storage: pod.Storage,
			Options: toBSON(pod.Options),
			Fields:  fieldDefs(fields),
		}
		if _, err := p.pods.Create(ctx, def); err != nil {
			return err
		}
		p.log.Appendf("CREATED pod '%s' (%s) with %d fields", pod.Name, pod.Kind, len(fields))
		p.logger.Info("created pod definition",
			zap.String("pod", pod.Name),
			zap.String("kind", pod.Kind),
			zap.Int("fields", len(fields)))
		return nil
	}

	added := 0
	for _, f := range fields {
		if _, ok := existing.FieldByName(f.Name); ok {
			continue
		}
		fd := podstore.FieldDefinition{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  toBSON(f.Options),
		}
		if err := p.pods.AddField(ctx, existing.ID, fd); err != nil {
			return err
		}
		added++
	}

	missingOpts := bson.M{}
	for k, v := range pod.Options {
		if _, ok := existing.Options[k]; !ok {
			missingOpts[k] = v
		}
	}
	if len(missingOpts) > 0 {
		if err := p.pods.UpdateOptions(ctx, existing.ID, pod.Label, missingOpts); err != nil {
			return err
		}
	}

	if added > 0 || len(missingOpts) > 0 {
		p.log.Appendf("MERGED pod '%s': %d fields added, %d options filled", pod.Name, added, len(missingOpts))
		p.logger.Info("merged pod definition",
			zap.String("pod", pod.Name),
			zap.Int("fields_added", added),
			zap.Int("options_filled", len(missingOpts)))
	} else {
		p.log.Appendf("UNCHANGED pod '%s'", pod.Name)
	}
	return nil
}

// validFields drops fields without a name, logging each skip. A
// nameless field can never be matched on a later pass, so storing one
// would leave an unreachable definition behind.
func (p *PodProvisioner) validFields(pod schema.Pod) []schema.Field {
	out := make([]schema.Field, 0, len(pod.Fields))
	for _, f := range pod.Fields {
		if !f.Valid() {
			p.logger.Warn("skipping field definition without name",
				zap.String("pod", pod.Name),
				zap.String("label", f.Label))
			p.log.Appendf("SKIP field in pod '%s' (missing name)", pod.Name)
			continue
		}
		out = append(out, f)
	}
	return out
}

func fieldDefs(fields []schema.Field) []podstore.FieldDefinition {
	out := make([]podstore.FieldDefinition, 0, len(fields))
	for _, f := range fields {
		out = append(out, podstore.FieldDefinition{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  toBSON(f.Options),
		})
	}
	return out
}

func toBSON(m map[string]any) bson.M {
	if m == nil {
		return bson.M{}
	}
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
