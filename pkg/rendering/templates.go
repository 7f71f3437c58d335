package rendering

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TemplateExtensions are the file suffixes treated as page templates.
var TemplateExtensions = []string{".htm", ".html", ".tmpl"}

// TemplateService parses and caches templates from a file system.
// It is safe for concurrent use.
type TemplateService struct {
	fsys   fs.FS
	reload bool
	funcs  template.FuncMap

	mu    sync.RWMutex
	cache map[string]*template.Template
	group singleflight.Group
}

// NewTemplateService returns a service over fsys. When reload is true every
// render re-reads the template, which suits development mode.
func NewTemplateService(fsys fs.FS, reload bool) *TemplateService {
	return &TemplateService{
		fsys:   fsys,
		reload: reload,
		cache:  make(map[string]*template.Template),
		funcs: template.FuncMap{
			// raw marks control markup as already safe.
			"raw": func(s any) template.HTML { return template.HTML(fmt.Sprint(s)) },
		},
	}
}

// Funcs adds functions available to templates parsed after the call.
func (s *TemplateService) Funcs(fm template.FuncMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fm {
		s.funcs[k] = v
	}
	s.cache = make(map[string]*template.Template)
}

// Has reports whether name exists in the file system.
func (s *TemplateService) Has(name string) bool {
	if s == nil || s.fsys == nil {
		return false
	}
	_, err := fs.Stat(s.fsys, cleanName(name))
	return err == nil
}

// Render executes template name with model into w.
func (s *TemplateService) Render(w io.Writer, name string, model any) error {
	t, err := s.lookup(cleanName(name))
	if err != nil {
		return err
	}
	if err := t.Execute(w, model); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return nil
}

// RenderString executes template name and returns the output.
func (s *TemplateService) RenderString(name string, model any) (string, error) {
	var b Buffer
	if err := s.Render(&b, name, model); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *TemplateService) lookup(name string) (*template.Template, error) {
	if s == nil || s.fsys == nil {
		return nil, fmt.Errorf("no template file system configured for %s", name)
	}
	if !s.reload {
		s.mu.RLock()
		t, ok := s.cache[name]
		s.mu.RUnlock()
		if ok {
			return t, nil
		}
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		src, err := fs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", name, err)
		}
		s.mu.RLock()
		t := template.New(path.Base(name)).Funcs(s.funcs)
		s.mu.RUnlock()
		t, err = t.Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		if !s.reload {
			s.mu.Lock()
			s.cache[name] = t
			s.mu.Unlock()
		}
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// IsTemplate reports whether name has a template extension.
func IsTemplate(name string) bool {
	for _, ext := range TemplateExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
