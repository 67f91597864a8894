package extract

import "go.uber.org/zap"

// NewZhaopin returns the strategy for sou.zhaopin.com, rd.zhaopin.com and i.zhaopin.com.
func NewZhaopin(logger *zap.Logger) Strategy {
	return newSiteStrategy(site{
		platform: PlatformZhaopin,

		resumeURLParts: []string{"/resume/", "/rd.zhaopin.com"},
		resumeMarkers:  `.resume-detail, .resume__detail, [class*="resume-detail"]`,
		listURLParts:   []string{"sou.zhaopin.com", "/search/"},
		listMarkers:    `.resume-list, .search-result, [class*="resume-list"]`,

		name: []string{
			`.resume__name, .name, [class*="resume-name"], [class*="userName"]`,
			"h1, h2",
		},
		title: []string{
			`.resume__expect, .expect-job, [class*="expect-position"], [class*="target-job"]`,
		},
		infoTags: `.resume__basic span, .basic-info span, [class*="info-item"], [class*="basic"] li`,
		detailRules: Rules{
			rule(BucketExperience, `\d+年|应届|经验`),
			rule(BucketEducation, `本科|硕士|博士|大专|高中|MBA|统招`),
			rule(BucketAge, `\d+岁|出生`),
			rule(BucketSalary, `K|k|薪|月薪|年薪|万`),
			rule(BucketLocation, `市|省|北京|上海|广州|深圳|杭州|成都|武汉|南京`),
		},
		skills:    `.skill-tag, .resume__skill span, [class*="skill"] span, [class*="tag-item"]`,
		work:      `.resume__work, .work-experience, [class*="work-exp"], [class*="career"]`,
		education: `.resume__education, .education-experience, [class*="education"], [class*="edu"]`,
		projects:  `.resume__project, .project-experience, [class*="project"]`,
		selfDesc: []string{
			`.resume__self, .self-evaluation, [class*="self-evaluation"], [class*="self-desc"]`,
			`[class*="advantage"], [class*="evaluation"]`,
		},
		main: ".resume-detail, .resume__detail, main, #app",

		cards: []string{
			`.resume-card, .resume-item, [class*="resume-card"], [class*="search-result-item"]`,
		},
		cardName:  `.name, [class*="name"]`,
		cardTitle: `.expect, .title, [class*="expect"], [class*="title"]`,
		cardTags:  `span, [class*="info"]`,
		cardRules: Rules{
			rule(BucketExperience, `\d+年|应届`),
			rule(BucketEducation, `本科|硕士|博士|大专`),
			rule(BucketAge, `\d+岁`),
			rule(BucketLocation, `市|北京|上海|广州|深圳|杭州`),
		},
	}, logger)
}
