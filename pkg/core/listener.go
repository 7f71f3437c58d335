package core

// ActionListener is invoked after its source control was triggered and the
// whole page finished processing. Returning false stops page processing.
type ActionListener interface {
	OnAction(source Control) bool
}

// ActionListenerFunc adapts a function to ActionListener.
type ActionListenerFunc func(source Control) bool

func (f ActionListenerFunc) OnAction(source Control) bool { return f(source) }

// Callback receives the response-phase hooks of a control: before the
// response is produced, before head elements are collected, and before the
// control is destroyed.
type Callback interface {
	PreResponse(source Control)
	PreGetHeadElements(source Control)
	PreDestroy(source Control)
}

// Behavior is an Ajax extension of a control. When IsRequestTarget reports
// true for the current request, OnAction produces the Partial response.
type Behavior interface {
	Callback
	IsRequestTarget(ctx Context) bool
	OnAction(source Control) *Partial
}

// CallbackFuncs implements Callback with optional functions.
type CallbackFuncs struct {
	OnPreResponse        func(source Control)
	OnPreGetHeadElements func(source Control)
	OnPreDestroy         func(source Control)
}

func (c *CallbackFuncs) PreResponse(source Control) {
	if c.OnPreResponse != nil {
		c.OnPreResponse(source)
	}
}

func (c *CallbackFuncs) PreGetHeadElements(source Control) {
	if c.OnPreGetHeadElements != nil {
		c.OnPreGetHeadElements(source)
	}
}

func (c *CallbackFuncs) PreDestroy(source Control) {
	if c.OnPreDestroy != nil {
		c.OnPreDestroy(source)
	}
}

// AjaxBehavior implements Behavior with optional functions. A nil Target
// treats every Ajax request reaching the control as targeting it.
type AjaxBehavior struct {
	CallbackFuncs
	Target func(ctx Context) bool
	Action func(source Control) *Partial
}

func (b *AjaxBehavior) IsRequestTarget(ctx Context) bool {
	if b.Target == nil {
		return ctx != nil && ctx.IsAjax()
	}
	return b.Target(ctx)
}

func (b *AjaxBehavior) OnAction(source Control) *Partial {
	if b.Action == nil {
		return nil
	}
	return b.Action(source)
}
