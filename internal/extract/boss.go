package extract

import "go.uber.org/zap"

// NewBoss returns the strategy for www.zhipin.com.
func NewBoss(logger *zap.Logger) Strategy {
	return newSiteStrategy(site{
		platform: PlatformBoss,

		resumeURLParts: []string{"/resume/", "/geek/"},
		resumeMarkers:  ".resume-detail, .geek-detail, .resume-content",
		listURLParts:   []string{"/web/boss/recommend", "/web/boss/search"},
		listMarkers:    ".candidate-list, .resume-list",

		name: []string{
			`.name, .geek-name, .resume-name, [class*="name"]`,
			"h1",
		},
		title: []string{
			`.expect-position, .geek-expect, [class*="expect"], [class*="title"]`,
			".job-title",
		},
		infoTags: `.info-labels span, .geek-tags span, .resume-info span, [class*="info"] span`,
		detailRules: Rules{
			rule(BucketExperience, `\d+年|应届|在校`),
			rule(BucketEducation, `本科|硕士|博士|大专|高中|MBA`),
			rule(BucketAge, `\d+岁`),
			rule(BucketSalary, `K|k|薪|工资|万`),
			rule(BucketLocation, `市|省|区|北京|上海|广州|深圳|杭州`),
		},
		skills:    `.skill-labels span, .skill-tag, [class*="skill"] span, [class*="tag"] span`,
		work:      `.resume-work, .work-exp, [class*="work-experience"], [class*="work-exp"]`,
		education: `.resume-education, .edu-exp, [class*="education"], [class*="edu-exp"]`,
		projects:  `.resume-project, .project-exp, [class*="project"]`,
		selfDesc: []string{
			`.resume-self, .self-evaluation, [class*="self-evaluation"], [class*="description"]`,
		},
		main: ".resume-detail, .geek-detail, .resume-content, main, #main",

		cards: []string{
			`.candidate-card, .resume-card, [class*="candidate-item"], [class*="card-inner"]`,
		},
		cardName:  `.name, [class*="name"]`,
		cardTitle: `.expect, .title, [class*="expect"], [class*="title"]`,
		cardTags:  `span, [class*="tag"]`,
		cardRules: Rules{
			rule(BucketExperience, `\d+年|应届`),
			rule(BucketEducation, `本科|硕士|博士|大专`),
			rule(BucketAge, `\d+岁`),
			rule(BucketLocation, `市|北京|上海|广州|深圳|杭州`),
		},
	}, logger)
}
