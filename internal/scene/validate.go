package scene

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/google/uuid"
)

const (
	ErrTypeInvalidScene = "scene_invalid"
)

const (
	defaultFOV = 40
)

// DefaultSettings are the render settings of scenes that do not define
// theirs.
var DefaultSettings = RenderSettings{
	Width:        400,
	Height:       225,
	SamplesPerPx: 20,
	MaxDepth:     20,
}

// Normalize fills the fields a scene file may omit: ids of objects and
// materials, material types, camera orientation and render settings.
func (s *Scene) Normalize() {
	for i := range s.Materials {
		m := &s.Materials[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Type == "" {
			m.Type = MaterialLambert
		}
	}

	for i := range s.Objects {
		if s.Objects[i].ID == "" {
			s.Objects[i].ID = uuid.NewString()
		}
	}

	if s.Camera.Up == (Vec3{}) {
		s.Camera.Up = Vec3{Y: 1}
	}
	if s.Camera.FOV == 0 {
		s.Camera.FOV = defaultFOV
	}

	if s.Settings.Width == 0 {
		s.Settings.Width = DefaultSettings.Width
	}
	if s.Settings.Height == 0 {
		s.Settings.Height = DefaultSettings.Height
	}
	if s.Settings.SamplesPerPx == 0 {
		s.Settings.SamplesPerPx = DefaultSettings.SamplesPerPx
	}
	if s.Settings.MaxDepth == 0 {
		s.Settings.MaxDepth = DefaultSettings.MaxDepth
	}
}

// Validate returns an error describing the first inconsistency found in
// the scene. Objects without a material id are valid and get a default
// material at render time.
func (s *Scene) Validate() error {
	materials := make(map[string]struct{}, len(s.Materials))
	for i, m := range s.Materials {
		if m.ID != "" {
			if _, ok := materials[m.ID]; ok {
				return errors.New("duplicate material id").
					WithType(ErrTypeInvalidScene).
					WithTag("index", i).
					WithTag("material_id", m.ID)
			}
			materials[m.ID] = struct{}{}
		}

		switch m.Type {
		case "", MaterialLambert, MaterialMetal, MaterialDielectric, MaterialEmissive, MaterialMirror:
		default:
			return errors.New("unknown material type").
				WithType(ErrTypeInvalidScene).
				WithTag("index", i).
				WithTag("material_id", m.ID).
				WithTag("material_type", m.Type)
		}

		if m.IOR < 0 || m.Power < 0 || m.Rough < 0 {
			return errors.New("negative material parameter").
				WithType(ErrTypeInvalidScene).
				WithTag("index", i).
				WithTag("material_id", m.ID)
		}
	}

	objects := make(map[string]struct{}, len(s.Objects))
	for i, o := range s.Objects {
		if o.ID != "" {
			if _, ok := objects[o.ID]; ok {
				return errors.New("duplicate object id").
					WithType(ErrTypeInvalidScene).
					WithTag("index", i).
					WithTag("object_id", o.ID)
			}
			objects[o.ID] = struct{}{}
		}

		if o.MaterialID != "" {
			if _, ok := materials[o.MaterialID]; !ok {
				return errors.New("unknown material").
					WithType(ErrTypeInvalidScene).
					WithTag("index", i).
					WithTag("object_id", o.ID).
					WithTag("material_id", o.MaterialID)
			}
		}

		switch o.Type {
		case ObjectSphere, ObjectSphereLight:
			if o.Size.X <= 0 {
				return errors.New("sphere radius must be positive").
					WithType(ErrTypeInvalidScene).
					WithTag("index", i).
					WithTag("object_id", o.ID).
					WithTag("radius", o.Size.X)
			}

		case ObjectBox:
			if o.Size.X < 0 || o.Size.Y < 0 || o.Size.Z < 0 {
				return errors.New("box size must not be negative").
					WithType(ErrTypeInvalidScene).
					WithTag("index", i).
					WithTag("object_id", o.ID)
			}

		case ObjectPlane:
			if o.Size.X < 0 || o.Size.Z < 0 {
				return errors.New("plane size must not be negative").
					WithType(ErrTypeInvalidScene).
					WithTag("index", i).
					WithTag("object_id", o.ID)
			}

		default:
			return errors.New("unknown object type").
				WithType(ErrTypeInvalidScene).
				WithTag("index", i).
				WithTag("object_id", o.ID).
				WithTag("object_type", o.Type)
		}
	}

	if s.Sky != nil {
		switch s.Sky.Type {
		case "", "solid", "gradient":
		default:
			return errors.New("unknown sky type").
				WithType(ErrTypeInvalidScene).
				WithTag("sky_type", s.Sky.Type)
		}
	}
	return nil
}

