package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/resume-screener/internal/recruiting"
)

const bossResumeHTML = `<html><body>
<div class="resume-detail">
  <div class="geek-name">张三</div>
  <div class="expect-position">后端工程师</div>
  <div class="info-labels"><span>5年</span><span>本科</span><span>28岁</span><span>20-30K</span><span>北京</span></div>
  <div class="skill-labels"><span>Go</span><span>Kubernetes</span><span>Go</span></div>
  <div class="resume-work">公司A 2019-2024</div>
  <div class="resume-work">公司B 2016-2019</div>
  <div class="resume-education">某大学 计算机</div>
  <div class="resume-project">项目X</div>
  <div class="self-evaluation">热爱技术</div>
</div>
</body></html>`

const bossListHTML = `<html><body>
<div class="candidate-list">
  <div class="candidate-card">
    <a href="/geek/1.html"><span class="name">李四</span></a>
    <span class="expect">前端工程师</span>
    <span>3年</span><span>硕士</span><span>上海</span>
  </div>
  <div class="candidate-card"><span class="expect">无名候选人</span></div>
  <div class="candidate-card">
    <span class="name">王五</span>
    <a href="https://www.zhipin.com/geek/2.html">详情</a>
  </div>
</div>
</body></html>`

func mustPage(t *testing.T, html, rawURL string) *Page {
	t.Helper()
	page, err := NewPage(html, rawURL)
	require.NoError(t, err)
	return page
}

func TestBossExtractCurrentResume(t *testing.T) {
	page := mustPage(t, bossResumeHTML, "https://www.zhipin.com/web/geek/chat?id=7")
	boss := NewBoss(zap.NewNop())

	require.True(t, boss.IsResumePage(page))

	c := boss.ExtractCurrentResume(page)
	require.NotNil(t, c)

	assert.Equal(t, "张三", c.Name)
	assert.Equal(t, "后端工程师", c.CurrentTitle)
	assert.Equal(t, "5年", c.WorkExperience)
	assert.Equal(t, "本科", c.Education)
	assert.Equal(t, "28岁", c.Age)
	assert.Equal(t, "20-30K", c.ExpectedSalary)
	assert.Equal(t, "北京", c.Location)
	assert.Equal(t, []string{"Go", "Kubernetes"}, c.Skills)
	assert.Equal(t, "公司A 2019-2024\n\n公司B 2016-2019", c.WorkHistory)
	assert.Equal(t, "某大学 计算机", c.EducationHistory)
	assert.Equal(t, "项目X", c.ProjectExperience)
	assert.Equal(t, "热爱技术", c.SelfDescription)
	assert.Equal(t, "Boss直聘", c.Platform)
	assert.Equal(t, "https://www.zhipin.com/web/geek/chat?id=7", c.ProfileURL)
	assert.Contains(t, c.RawText, "张三")
	assert.Contains(t, c.RawText, "项目X")
}

func TestExtractCurrentResumeFallsBackToBodyText(t *testing.T) {
	body := strings.Repeat("简", DetailRawTextLimit+100)
	page := mustPage(t, "<html><body><p>"+body+"</p></body></html>", "https://www.zhipin.com/resume/1")

	c := NewBoss(zap.NewNop()).ExtractCurrentResume(page)
	require.NotNil(t, c)

	assert.Empty(t, c.Name)
	assert.Equal(t, []string{}, c.Skills)
	assert.Len(t, []rune(c.RawText), DetailRawTextLimit)
}

func TestBossExtractResumeListSkipsNamelessCards(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	page := mustPage(t, bossListHTML, "https://www.zhipin.com/web/boss/recommend?page=1")
	boss := NewBoss(zap.New(core))

	require.True(t, boss.IsListPage(page))
	require.False(t, boss.IsResumePage(page))

	list := boss.ExtractResumeList(page)
	require.Len(t, list, 2)

	first := list[0]
	assert.Equal(t, "李四", first.Name)
	assert.Equal(t, "前端工程师", first.CurrentTitle)
	assert.Equal(t, "3年", first.WorkExperience)
	assert.Equal(t, "硕士", first.Education)
	assert.Equal(t, "上海", first.Location)
	assert.Empty(t, first.ExpectedSalary)
	assert.Equal(t, "https://www.zhipin.com/geek/1.html", first.ProfileURL)
	assert.Contains(t, first.RawText, "李四")

	assert.Equal(t, "王五", list[1].Name)
	assert.Equal(t, "https://www.zhipin.com/geek/2.html", list[1].ProfileURL)

	entries := observed.FilterMessage("resume list extracted").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.EqualValues(t, 3, ctx["cards"])
	assert.EqualValues(t, 1, ctx["skipped_without_name"])
	assert.Equal(t, "boss", ctx["platform"])
}

func TestLiepinListUsesFallbackCardsAndSkills(t *testing.T) {
	page := mustPage(t, `<html><body><ul>
		<li class="list-item">
			<a class="candidate-name" href="/cv/9">赵六</a>
			<span>5年</span><span>25K</span>
			<div class="skill-box"><span>Java</span><span>Java</span><span>Spring</span></div>
		</li>
	</ul></body></html>`, "https://h.liepin.com/search/talent")

	list := NewLiepin(zap.NewNop()).ExtractResumeList(page)
	require.Len(t, list, 1)

	c := list[0]
	assert.Equal(t, "赵六", c.Name)
	assert.Equal(t, "5年", c.WorkExperience)
	assert.Equal(t, "25K", c.ExpectedSalary)
	assert.Equal(t, []string{"Java", "Spring"}, c.Skills)
	assert.Equal(t, "https://h.liepin.com/cv/9", c.ProfileURL)
	assert.Equal(t, "猎聘", c.Platform)
}

func TestZhaopinSelfDescriptionCascade(t *testing.T) {
	page := mustPage(t, `<html><body><div class="resume__detail">
		<div class="resume__name">孙七</div>
		<div class="resume__basic"><span>1990年出生</span><span>杭州</span></div>
		<div class="my-advantage">沟通能力强</div>
	</div></body></html>`, "https://rd.zhaopin.com/resume/detail?id=3")

	z := NewZhaopin(zap.NewNop())
	require.True(t, z.IsResumePage(page))

	c := z.ExtractCurrentResume(page)
	require.NotNil(t, c)

	assert.Equal(t, "孙七", c.Name)
	assert.Equal(t, "沟通能力强", c.SelfDescription)
	assert.Equal(t, "杭州", c.Location)
	// "1990年出生" hits the experience rule before the age rule
	assert.Equal(t, "1990年出生", c.WorkExperience)
	assert.Empty(t, c.Age)
	assert.Equal(t, "智联招聘", c.Platform)
}

func TestNilPageIsHandled(t *testing.T) {
	boss := NewBoss(nil)

	assert.False(t, boss.IsResumePage(nil))
	assert.False(t, boss.IsListPage(nil))
	assert.Nil(t, boss.ExtractCurrentResume(nil))
	assert.Equal(t, 0, len(boss.ExtractResumeList(nil)))
}

func TestExtractionFailuresAreRecovered(t *testing.T) {
	constructors := map[string]func(*zap.Logger) Strategy{
		"boss":    NewBoss,
		"liepin":  NewLiepin,
		"zhaopin": NewZhaopin,
	}

	for name, newStrategy := range constructors {
		t.Run(name, func(t *testing.T) {
			core, observed := observer.New(zapcore.WarnLevel)
			s := newStrategy(zap.New(core))

			// A page without a parsed document fails inside the extractor.
			broken := &Page{}

			assert.Nil(t, s.ExtractCurrentResume(broken))
			assert.Equal(t, []recruiting.Candidate{}, s.ExtractResumeList(broken))

			assert.Equal(t, 1, observed.FilterMessage("resume extraction failed").Len())
			assert.Equal(t, 1, observed.FilterMessage("resume list extraction failed").Len())
		})
	}
}
