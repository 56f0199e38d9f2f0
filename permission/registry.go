package permission

import (
	"reflect"
	"sort"

	"github.com/lektor-lms/lektor/models"
)

type regEntry struct {
	handler Handler
	typ     reflect.Type
}

// Registry maps a resource type name to its handler and row model. Built
// once at startup and handed to the router; nothing here mutates afterwards,
// so concurrent reads need no locking.
type Registry struct {
	entries map[string]regEntry
}

// NewRegistry wires up the default handler set.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]regEntry)}

	r.Register(NewUserHandler(), &models.User{})
	r.Register(NewOrganizationHandler(), &models.Organization{})
	r.Register(NewCourseHandler(), &models.Course{})
	r.Register(NewCourseMemberHandler(), &models.CourseMember{})
	r.Register(NewCourseContentTypeHandler(), &models.CourseContentType{})
	r.Register(NewCourseContentHandler(), &models.CourseContent{})
	r.Register(NewReadOnlyHandler(NewCourseSubmissionGroupHandler()), &models.CourseSubmissionGroup{})
	r.Register(NewResultHandler(), &models.Result{})

	return r
}

// Register binds a handler and its row model under the handler's resource
// type. Registering the same resource twice replaces the earlier binding.
func (r *Registry) Register(h Handler, model models.IModel) {
	r.entries[h.ResourceType()] = regEntry{
		handler: h,
		typ:     reflect.TypeOf(model).Elem(),
	}
}

// Handler resolves the handler for a resource type.
func (r *Registry) Handler(resource string) (Handler, bool) {
	e, ok := r.entries[resource]
	if !ok {
		return nil, false
	}
	return e.handler, true
}

// NewModel returns a fresh zero row model for the resource type.
func (r *Registry) NewModel(resource string) (models.IModel, bool) {
	e, ok := r.entries[resource]
	if !ok {
		return nil, false
	}
	return reflect.New(e.typ).Interface().(models.IModel), true
}

// NewModelSlicePtr returns a pointer to an empty []*T for the resource type,
// suitable for gorm's Find.
func (r *Registry) NewModelSlicePtr(resource string) (interface{}, bool) {
	e, ok := r.entries[resource]
	if !ok {
		return nil, false
	}
	return reflect.New(reflect.SliceOf(reflect.PtrTo(e.typ))).Interface(), true
}

// Resources lists the registered resource types, sorted for stable route
// setup.
func (r *Registry) Resources() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
