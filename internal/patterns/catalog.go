package patterns

import "regexp"

// Def describes one JS pattern that native CSS/HTML can replace. The table
// is data, not control flow: detection iterates it uniformly. Severity here
// ranks migration effort: high = easy win, medium = moderate effort,
// low = complex migration.
type Def struct {
	Name        string
	Description string
	Severity    string
	Solution    string
	Explanation string
	Before      string
	After       string
	Patterns    []*regexp.Regexp
}

func res(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

var Catalog = []Def{
	{
		Name:        "accordion_toggle",
		Description: "Accordion/collapse toggle",
		Severity:    "high",
		Solution:    "<details>/<summary> or checkbox hack",
		Explanation: "Native <details> element provides expand/collapse without JS. For styled accordions, use hidden checkbox + :checked selector.",
		Before: `document.querySelector('.accordion-btn').addEventListener('click', () => {
  document.querySelector('.accordion-content').classList.toggle('open');
});`,
		After: `<details>
  <summary>Click to expand</summary>
  <p>Content here</p>
</details>`,
		Patterns: res(
			`\.accordion`,
			`toggle.*collapse`,
			`expand.*collapse`,
			`\.slideToggle`,
			`\.slideDown`,
			`\.slideUp`,
			`accordion.*click`,
			`classList\.(toggle|add|remove).*\b(open|active|expanded|collapsed)\b`,
		),
	},
	{
		Name:        "modal_dialog",
		Description: "Modal/dialog toggle",
		Severity:    "high",
		Solution:    "<dialog> element or :target selector",
		Explanation: "Native <dialog> element with showModal()/close() or pure CSS with :target pseudo-class for URL-driven modals.",
		Before: `const modal = document.querySelector('.modal');
openBtn.addEventListener('click', () => modal.style.display = 'flex');
closeBtn.addEventListener('click', () => modal.style.display = 'none');`,
		After: `<dialog id="myDialog">
  <p>Modal content</p>
  <button onclick="this.closest('dialog').close()">Close</button>
</dialog>
<button onclick="document.getElementById('myDialog').showModal()">Open</button>`,
		Patterns: res(
			`\.modal`,
			`openModal|closeModal|toggleModal`,
			`dialog.*open|open.*dialog`,
			`\.show\(\)|\.hide\(\)`,
			`display.*=.*["']?(none|block|flex)`,
			`classList.*(modal|popup|overlay)`,
		),
	},
	{
		Name:        "tabs",
		Description: "Tab switching",
		Severity:    "high",
		Solution:    "Radio button hack with :checked",
		Explanation: "Hidden radio buttons with labels create accessible tabs. The :checked selector shows the corresponding panel.",
		Before: `tabs.forEach(tab => tab.addEventListener('click', () => {
  tabs.forEach(t => t.classList.remove('active'));
  tab.classList.add('active');
}));`,
		After: `<input type="radio" name="tabs" id="tab1" checked>
<label for="tab1">Tab 1</label>
<div class="panel" id="panel1">Content 1</div>
<style>
.panel { display: none; }
#tab1:checked ~ #panel1 { display: block; }
</style>`,
		Patterns: res(
			`\.tabs?[^a-z]`,
			`tab.*click|click.*tab`,
			`switchTab|changeTab|selectTab`,
			`tabIndex|activeTab|currentTab`,
			`\.tab-content`,
		),
	},
	{
		Name:        "smooth_scroll",
		Description: "Smooth scrolling",
		Severity:    "high",
		Solution:    "CSS scroll-behavior: smooth",
		Explanation: "Single CSS property enables smooth scrolling for the entire page or specific containers.",
		Before: `anchor.addEventListener('click', function(e) {
  e.preventDefault();
  document.querySelector(this.getAttribute('href')).scrollIntoView({ behavior: 'smooth' });
});`,
		After: `<style>
html { scroll-behavior: smooth; }
</style>`,
		Patterns: res(
			`scrollIntoView.*smooth`,
			`scroll.*behavior.*smooth`,
			`smoothScroll`,
			`animate.*scrollTop`,
			`\$.*animate.*scroll`,
			`window\.scrollTo\(`,
		),
	},
	{
		Name:        "carousel_slider",
		Description: "Carousel/slider",
		Severity:    "medium",
		Solution:    "CSS scroll-snap",
		Explanation: "CSS scroll-snap creates native carousel behavior. Combine with scroll-behavior: smooth for polished effect.",
		Before: `nextBtn.addEventListener('click', () => {
  currentSlide = (currentSlide + 1) % slides.length;
  track.style.transform = 'translateX(-' + (currentSlide * 100) + '%)';
});`,
		After: `<style>
.carousel {
  display: flex;
  overflow-x: auto;
  scroll-snap-type: x mandatory;
}
.slide { flex: 0 0 100%; scroll-snap-align: start; }
</style>`,
		Patterns: res(
			`carousel|slider|swiper|slick`,
			`\.slide\(`,
			`nextSlide|prevSlide|currentSlide`,
			`translateX.*%`,
			`scroll.*snap`,
		),
	},
	{
		Name:        "sticky_header",
		Description: "Sticky/fixed header on scroll",
		Severity:    "high",
		Solution:    "CSS position: sticky",
		Explanation: "position: sticky provides scroll-aware positioning without JS. Element sticks when reaching its threshold.",
		Before: `window.addEventListener('scroll', () => {
  if (window.scrollY > 100) header.classList.add('sticky');
  else header.classList.remove('sticky');
});`,
		After: `<style>
header { position: sticky; top: 0; z-index: 100; }
</style>`,
		Patterns: res(
			`scroll.*fixed|fixed.*scroll`,
			`sticky.*header|header.*sticky`,
			`scrollY|pageYOffset`,
			`classList.*(sticky|fixed).*scroll`,
			`\.is-sticky`,
		),
	},
	{
		Name:        "dark_mode",
		Description: "Dark mode toggle",
		Severity:    "medium",
		Solution:    "CSS prefers-color-scheme + checkbox toggle",
		Explanation: "Use prefers-color-scheme for system preference, optionally with checkbox hack for manual override.",
		Before: `toggle.addEventListener('click', () => {
  document.body.classList.toggle('dark');
  localStorage.setItem('theme', document.body.classList.contains('dark') ? 'dark' : 'light');
});`,
		After: `<style>
@media (prefers-color-scheme: dark) {
  :root { --bg: #1a1a1a; --text: #ffffff; }
}
body { background: var(--bg); color: var(--text); }
</style>`,
		Patterns: res(
			`dark.*mode|theme.*dark|dark.*theme`,
			`prefers-color-scheme`,
			`matchMedia.*dark`,
			`classList.*(dark|light|theme)`,
			`localStorage.*(theme|dark|mode)`,
		),
	},
	{
		Name:        "form_validation",
		Description: "Form validation styling",
		Severity:    "medium",
		Solution:    "CSS :valid/:invalid/:user-invalid",
		Explanation: "Native CSS pseudo-classes style form state. :user-invalid (newer) only shows after user interaction.",
		Before: `input.addEventListener('blur', () => {
  input.classList.toggle('invalid', !input.validity.valid);
});`,
		After: `<style>
input:user-invalid { border-color: red; }
input:user-valid { border-color: green; }
</style>
<input type="email" placeholder="Email" required>`,
		Patterns: res(
			`\.is-valid|\.is-invalid|\.error`,
			`classList.*(valid|invalid|error)`,
			`validate.*form|form.*valid`,
			`checkValidity|reportValidity`,
			`\.setCustomValidity`,
		),
	},
	{
		Name:        "tooltip",
		Description: "Hover tooltips",
		Severity:    "high",
		Solution:    "CSS ::before/::after with attr()",
		Explanation: "Pure CSS tooltips using pseudo-elements and data attributes. No JS library needed for simple tooltips.",
		Before: `el.addEventListener('mouseenter', () => {
  const tip = document.createElement('div');
  tip.textContent = el.dataset.tooltip;
  el.appendChild(tip);
});`,
		After: `<button data-tooltip="Click to save">Save</button>
<style>
[data-tooltip]::after {
  content: attr(data-tooltip);
  position: absolute;
  opacity: 0;
}
[data-tooltip]:hover::after { opacity: 1; }
</style>`,
		Patterns: res(
			`\.tooltip`,
			`title.*hover|hover.*title`,
			`mouseenter.*tooltip|tooltip.*mouseenter`,
			`data-tooltip`,
			`tippy|popper`,
		),
	},
	{
		Name:        "animation_js",
		Description: "JS-driven animations",
		Severity:    "medium",
		Solution:    "CSS @keyframes and transitions",
		Explanation: "CSS animations are GPU-accelerated and more performant than JS. Use for most UI animations.",
		Before: `const fade = setInterval(() => {
  opacity += 0.1;
  element.style.opacity = opacity;
  if (opacity >= 1) clearInterval(fade);
}, 50);`,
		After: `<style>
.fade-in { animation: fadeIn 0.5s ease-out forwards; }
@keyframes fadeIn { from { opacity: 0; } to { opacity: 1; } }
</style>`,
		Patterns: res(
			`setInterval.*style`,
			`requestAnimationFrame`,
			`\.animate\(`,
			`gsap|anime\.js|velocity`,
			`style\.(transform|opacity|left|top)`,
		),
	},
	{
		Name:        "aspect_ratio_js",
		Description: "Aspect ratio maintenance",
		Severity:    "high",
		Solution:    "CSS aspect-ratio property",
		Explanation: "Native aspect-ratio property replaces the padding-bottom hack. Well-supported in modern browsers.",
		Before: `wrapper.style.paddingBottom = '56.25%'; // 16:9
wrapper.style.position = 'relative';`,
		After: `<style>
.video-container { aspect-ratio: 16 / 9; width: 100%; }
img { aspect-ratio: 4 / 3; object-fit: cover; }
</style>`,
		Patterns: res(
			`padding.*bottom.*%`,
			`aspectRatio|aspect-ratio`,
			`height.*=.*width`,
			`resize.*aspect`,
		),
	},
	{
		Name:        "container_query_js",
		Description: "Component-based responsive logic",
		Severity:    "medium",
		Solution:    "CSS @container queries",
		Explanation: "Container queries allow components to respond to their container's size, not viewport. Modern alternative to ResizeObserver.",
		Before: `const observer = new ResizeObserver(entries => {
  entries.forEach(entry => {
    entry.target.classList.toggle('compact', entry.contentRect.width < 400);
  });
});`,
		After: `<style>
.card-container { container-type: inline-size; }
@container (max-width: 400px) {
  .card { grid-template-columns: 1fr; }
}
</style>`,
		Patterns: res(
			`ResizeObserver`,
			`getBoundingClientRect.*width`,
			`offsetWidth|clientWidth`,
			`element.*width.*class`,
		),
	},
	{
		Name:        "counter_numbering",
		Description: "Auto-numbering elements",
		Severity:    "high",
		Solution:    "CSS counter-increment",
		Explanation: "CSS counters automatically number elements. Works with nested structures too.",
		Before: `document.querySelectorAll('.step').forEach((step, i) => {
  step.querySelector('.number').textContent = i + 1;
});`,
		After: `<style>
.steps { counter-reset: step; }
.step::before {
  counter-increment: step;
  content: counter(step) ". ";
}
</style>`,
		Patterns: res(
			`\.forEach.*index`,
			`counter|numbering`,
			`textContent.*=.*\d`,
			`step.*number|number.*step`,
		),
	},
	{
		Name:        "view_transitions",
		Description: "Page transition animations",
		Severity:    "low",
		Solution:    "View Transitions API (CSS + minimal JS)",
		Explanation: "View Transitions API provides native page transitions. Astro has built-in support via <ViewTransitions />.",
		Before: `async function navigate(url) {
  document.body.classList.add('fade-out');
  const html = await fetch(url).then(r => r.text());
  document.body.innerHTML = html;
}`,
		After: `---
import { ViewTransitions } from 'astro:transitions';
---
<head>
  <ViewTransitions />
</head>`,
		Patterns: res(
			`page.*transition|transition.*page`,
			`navigate.*animate|animate.*navigate`,
			`startViewTransition`,
			`route.*animation`,
		),
	},
	{
		Name:        "scroll_driven_animation",
		Description: "Scroll-triggered animations",
		Severity:    "medium",
		Solution:    "CSS scroll-driven animations (emerging)",
		Explanation: "CSS scroll() and view() timelines enable scroll-linked animations. Fallback to IntersectionObserver for older browsers.",
		Before: `const observer = new IntersectionObserver(entries => {
  entries.forEach(entry => {
    if (entry.isIntersecting) entry.target.classList.add('animate');
  });
});`,
		After: `<style>
@supports (animation-timeline: view()) {
  .reveal {
    animation: reveal linear both;
    animation-timeline: view();
  }
}
</style>`,
		Patterns: res(
			`IntersectionObserver`,
			`scroll.*animate|animate.*scroll`,
			`scrollY.*style`,
			`onscroll.*class`,
			`aos|scrollreveal|wow\.js`,
		),
	},
}
