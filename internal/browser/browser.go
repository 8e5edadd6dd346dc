// Package browser drives a headless Chrome instance to render
// script-heavy application pages, replay fill plans with real DOM events
// and watch pages for dynamic content changes.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/manav-1/jobfill/filler"
	"github.com/manav-1/jobfill/internal/watch"
)

// DefaultRenderWait is how long Render lets page scripts settle after the
// document is ready.
const DefaultRenderWait = 2 * time.Second

// Driver owns the Chrome allocator configuration.
type Driver struct {
	log      *zap.Logger
	headless bool
	timeout  time.Duration
}

// New creates a Driver. A nil logger disables logging.
func New(log *zap.Logger, headless bool, timeout time.Duration) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Driver{log: log, headless: headless, timeout: timeout}
}

func (d *Driver) newContext(ctx context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	return taskCtx, func() {
		cancelTask()
		cancelAlloc()
	}
}

// Render navigates to the URL, waits for scripts to settle and returns the
// rendered document. Use this instead of a plain GET for single-page
// application forms.
func (d *Driver) Render(ctx context.Context, url string, wait time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	taskCtx, cancelTask := d.newContext(ctx)
	defer cancelTask()

	if wait <= 0 {
		wait = DefaultRenderWait
	}

	start := time.Now()
	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(wait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}

	d.log.Debug("page rendered",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Duration("duration", time.Since(start)),
	)
	return html, nil
}

// ExecuteFill navigates to the URL and replays the plan inside the live
// page, dispatching real input events so framework-bound forms notice the
// values. Returns the number of controls written. Actions whose control has
// disappeared are skipped, not errors.
func (d *Driver) ExecuteFill(ctx context.Context, url string, plan *filler.Plan) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	taskCtx, cancelTask := d.newContext(ctx)
	defer cancelTask()

	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(DefaultRenderWait),
		chromedp.Evaluate(injectStyleScript, nil),
	)
	if err != nil {
		return 0, fmt.Errorf("preparing %s: %w", url, err)
	}

	count := 0
	for _, action := range plan.Actions {
		encoded, err := json.Marshal(action)
		if err != nil {
			return count, fmt.Errorf("encoding action: %w", err)
		}

		var ok bool
		expr := fmt.Sprintf("(%s)(%s)", fillScript, encoded)
		if err := chromedp.Run(taskCtx, chromedp.Evaluate(expr, &ok)); err != nil {
			return count, fmt.Errorf("filling %s: %w", action.FieldType, err)
		}
		if ok {
			count++
		}
		d.log.Debug("fill action",
			zap.String("field", action.FieldType),
			zap.String("css", action.Locator.Css),
			zap.Bool("written", ok),
		)
	}

	// Leave the feedback highlight visible before the browser closes.
	_ = chromedp.Run(taskCtx, chromedp.Sleep(feedbackDuration))
	return count, nil
}

// Watch navigates to the URL and invokes onChange with the rendered
// document after every burst of DOM mutations, debounced so rapid script
// updates trigger one rescan. Blocks until the context is cancelled.
func (d *Driver) Watch(ctx context.Context, url string, onChange func(html string)) error {
	taskCtx, cancelTask := d.newContext(ctx)
	defer cancelTask()

	deb := watch.NewDebouncer(watch.RescanDelay)
	defer deb.Stop()

	rescan := func() {
		var html string
		if err := chromedp.Run(taskCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
			d.log.Warn("capturing page after mutation", zap.Error(err))
			return
		}
		onChange(html)
	}

	// Mutation events fan out through a feed; the subscriber debounces so a
	// burst of script updates triggers one rescan.
	feed := watch.NewFeed()
	sub, cancelSub := feed.Subscribe()
	defer cancelSub()
	go func() {
		for {
			select {
			case <-sub:
				deb.Trigger(rescan)
			case <-taskCtx.Done():
				return
			}
		}
	}()

	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		switch ev.(type) {
		case *dom.EventChildNodeInserted, *dom.EventChildNodeRemoved, *dom.EventAttributeModified:
			feed.Notify()
		}
	})

	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("watching %s: %w", url, err)
	}

	d.log.Info("watching page for changes", zap.String("url", url))
	rescan()

	<-taskCtx.Done()
	return nil
}

const feedbackDuration = 2 * time.Second

const injectStyleScript = `(function () {
	if (document.getElementById("jobfill-style")) return true;
	var s = document.createElement("style");
	s.id = "jobfill-style";
	s.textContent = ".jobfill-filled { background-color: #d4edda !important; transition: background-color 0.3s ease; }" +
		".jobfill-error { background-color: #f8d7da !important; transition: background-color 0.3s ease; }";
	document.head.appendChild(s);
	return true;
})()`

// fillScript writes one planned action into the live page. Values go
// through the native value setter so frameworks tracking the property see
// the change, then input events are dispatched to run page validation.
const fillScript = `function (action) {
	var el = null;
	if (action.locator.css) {
		el = document.querySelector(action.locator.css);
	} else if (action.locator.tag) {
		el = document.getElementsByTagName(action.locator.tag)[action.locator.index || 0] || null;
	}
	if (!el) return false;

	switch (action.controlType) {
	case "checkbox":
		el.checked = ["", "false", "0", "off", "no"].indexOf(String(action.value).toLowerCase()) === -1;
		break;
	case "radio":
		if (el.value !== action.value) return false;
		el.checked = true;
		break;
	case "select":
		var match = Array.prototype.find.call(el.options, function (opt) {
			return opt.value === action.value ||
				opt.textContent.toLowerCase().indexOf(action.value.toLowerCase()) !== -1;
		});
		if (!match) return false;
		match.selected = true;
		break;
	case "file":
		return false;
	default:
		var proto = el.tagName === "TEXTAREA" ? HTMLTextAreaElement.prototype : HTMLInputElement.prototype;
		var desc = Object.getOwnPropertyDescriptor(proto, "value");
		if (desc && desc.set) {
			desc.set.call(el, action.value);
		} else {
			el.value = action.value;
		}
		break;
	}

	["input", "change", "blur", "keyup"].forEach(function (type) {
		el.dispatchEvent(new Event(type, { bubbles: true, cancelable: true }));
	});

	el.scrollIntoView({ behavior: "smooth", block: "center", inline: "nearest" });
	el.classList.remove("jobfill-filled", "jobfill-error");
	el.classList.add("jobfill-filled");
	setTimeout(function () { el.classList.remove("jobfill-filled"); }, 2000);
	return true;
}`
